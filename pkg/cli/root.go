/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/erptools/preflight/pkg/logging"
	"github.com/erptools/preflight/pkg/version"
)

const appName = "preflight"

// New builds the root command with all subcommands attached.
func New() *cli.Command {
	return &cli.Command{
		Name:    appName,
		Usage:   "Pre-validate ERP import datasets before they reach the system",
		Version: version.Get(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				os.Setenv("LOG_LEVEL", "debug")
			}
			logging.SetDefaultStructuredLogger(appName, version.Version)
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(),
			serveCmd(),
		},
	}
}
