package api

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/erptools/preflight/pkg/logging"
	"github.com/erptools/preflight/pkg/pipeline"
	"github.com/erptools/preflight/pkg/server"
	"github.com/erptools/preflight/pkg/version"
)

const name = "preflight-api-server"

// Serve starts the API server and blocks until shutdown.
// It configures logging, sets up routes, and handles graceful shutdown.
// Returns an error if the server fails to start or encounters a fatal error.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.SetDefaultStructuredLogger(name, version.Version)
	slog.Info("starting",
		"name", name,
		"version", version.Version,
		"commit", version.Commit,
		"date", version.Date,
	)

	// Setup validation handler
	runner := pipeline.NewRunner()

	r := map[string]http.HandlerFunc{
		"/v1/validate": handleValidate(runner),
	}

	// Create and run server
	s := server.New(
		server.WithName(name),
		server.WithVersion(version.Version),
		server.WithHandler(r),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
