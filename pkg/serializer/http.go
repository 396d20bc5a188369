/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package serializer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes a preflight document (summary, report, error
// envelope) as a JSON response. The body is encoded into a buffer before
// any header is written, so an encoding failure becomes a clean 500
// instead of a half-written 200.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode response document", "error", err, "status", statusCode)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// The connection is gone; nothing left to send the caller.
		slog.Warn("failed to write response body", "error", err)
	}
}
