/*
Copyright © 2025 Preflight Authors
SPDX-License-Identifier: Apache-2.0
*/

package serializer_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erptools/preflight/pkg/pipeline"
	"github.com/erptools/preflight/pkg/serializer"
	"github.com/erptools/preflight/pkg/server"
)

func TestRespondJSON_PipelineSummary(t *testing.T) {
	summary := &pipeline.Summary{
		RunID: "run-1234",
		Overall: pipeline.Overall{
			TotalRecords:   4,
			ValidRecords:   4,
			SuccessRate:    100,
			ReadinessScore: 100,
			DataQuality:    100,
			Health:         pipeline.HealthExcellent,
			ImportReady:    true,
		},
		ValidatorResults: map[string]pipeline.ValidatorResult{},
		CriticalIssues:   []pipeline.CriticalIssue{},
		Recommendations:  []pipeline.Recommendation{},
	}
	summary.Header.Set(pipeline.KindSummary)

	w := httptest.NewRecorder()
	serializer.RespondJSON(w, http.StatusOK, summary)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got pipeline.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal summary: %v", err)
	}
	if got.RunID != summary.RunID {
		t.Errorf("RunID = %q, want %q", got.RunID, summary.RunID)
	}
	if got.Overall.TotalRecords != 4 || !got.Overall.ImportReady {
		t.Errorf("overall round-trip mismatch: %+v", got.Overall)
	}
	if got.Kind != pipeline.KindSummary {
		t.Errorf("Kind = %q, want %q", got.Kind, pipeline.KindSummary)
	}
}

func TestRespondJSON_ErrorEnvelope(t *testing.T) {
	resp := server.ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   "dataset is not valid JSON",
		RequestID: "req-42",
		Timestamp: time.Now().UTC(),
		Retryable: false,
	}

	tests := []struct {
		name       string
		statusCode int
	}{
		{"BadRequest", http.StatusBadRequest},
		{"NotFound", http.StatusNotFound},
		{"TooManyRequests", http.StatusTooManyRequests},
		{"InternalServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			serializer.RespondJSON(w, tt.statusCode, resp)

			if w.Code != tt.statusCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.statusCode)
			}

			var got server.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to unmarshal envelope: %v", err)
			}
			if got.Code != resp.Code {
				t.Errorf("Code = %q, want %q", got.Code, resp.Code)
			}
			if got.RequestID != resp.RequestID {
				t.Errorf("RequestID = %q, want %q", got.RequestID, resp.RequestID)
			}
		})
	}
}

func TestRespondJSON_EncodingFailureBecomesCleanError(t *testing.T) {
	w := httptest.NewRecorder()

	// Channels cannot be marshaled; the buffered encode must fail before
	// the success status is committed.
	serializer.RespondJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if w.Body.Len() == 0 {
		t.Error("expected an error message in the body")
	}
}

func TestRespondJSON_NilDocument(t *testing.T) {
	w := httptest.NewRecorder()

	serializer.RespondJSON(w, http.StatusOK, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != "null\n" {
		t.Errorf("body = %q, want %q", body, "null\n")
	}
}
