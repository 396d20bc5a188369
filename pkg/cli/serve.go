/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/erptools/preflight/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the validation HTTP API server",
		Description: `Starts an HTTP server exposing POST /v1/validate, which accepts a
dataset bundle body and responds with the validation summary. The
listen port is taken from the PORT environment variable (default 8080).`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.Serve()
		},
	}
}
