/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import "fmt"

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/erptools/preflight/pkg/version.Version=1.0.0"
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Get returns the full version string including commit and build date.
func Get() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
