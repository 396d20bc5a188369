/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/erptools/preflight/pkg/dataset"
	"github.com/erptools/preflight/pkg/errors"
	"github.com/erptools/preflight/pkg/pipeline"
	"github.com/erptools/preflight/pkg/serializer"
	"github.com/erptools/preflight/pkg/server"
)

// maxRequestBytes bounds the accepted dataset payload.
const maxRequestBytes = 32 << 20

// handleValidate returns the POST /v1/validate handler: decode a dataset
// bundle from the request body, run the pipeline, respond with the
// summary.
func handleValidate(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			server.WriteError(w, r, http.StatusMethodNotAllowed,
				errors.ErrCodeMethodNotAllowed, "use POST with a dataset bundle body", false, nil)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			server.WriteError(w, r, http.StatusBadRequest,
				errors.ErrCodeInvalidInput, "failed to read request body", false,
				map[string]any{"error": err.Error()})
			return
		}

		bundle, err := dataset.Decode(body)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "failed to decode dataset bundle", nil)
			return
		}

		summary, err := runner.Run(r.Context(), bundle)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "validation failed", nil)
			return
		}

		slog.Debug("validated dataset bundle",
			"run_id", summary.RunID,
			"records", summary.Overall.TotalRecords,
			"health", summary.Overall.Health,
		)

		serializer.RespondJSON(w, http.StatusOK, summary)
	}
}
