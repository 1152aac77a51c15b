package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code tderrors.ErrorCode
		want int
	}{
		{"invalid request", tderrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"unauthorized", tderrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"not found", tderrors.ErrCodeNotFound, http.StatusNotFound},
		{"method not allowed", tderrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"rate limit", tderrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", tderrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"timeout", tderrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{"internal", tderrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", tderrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		name string
		code tderrors.ErrorCode
		want bool
	}{
		{"invalid request", tderrors.ErrCodeInvalidRequest, false},
		{"unauthorized", tderrors.ErrCodeUnauthorized, false},
		{"not found", tderrors.ErrCodeNotFound, false},
		{"method not allowed", tderrors.ErrCodeMethodNotAllowed, false},
		{"timeout", tderrors.ErrCodeTimeout, true},
		{"unavailable", tderrors.ErrCodeUnavailable, true},
		{"rate limit", tderrors.ErrCodeRateLimitExceeded, true},
		{"internal", tderrors.ErrCodeInternal, true},
		{"unknown defaults false", tderrors.ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFromCode(tt.code); got != tt.want {
				t.Fatalf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMergeDetails(t *testing.T) {
	t.Run("both empty returns nil", func(t *testing.T) {
		if got := mergeDetails(nil, nil); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
		if got := mergeDetails(map[string]any{}, map[string]any{}); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
	})

	t.Run("merges and second overwrites", func(t *testing.T) {
		a := map[string]any{"a": 1, "shared": "old"}
		b := map[string]any{"b": 2, "shared": "new"}

		got := mergeDetails(a, b)
		if got == nil {
			t.Fatal("expected map, got nil")
		}
		if got["a"].(int) != 1 {
			t.Fatalf("expected a=1, got %#v", got["a"])
		}
		if got["b"].(int) != 2 {
			t.Fatalf("expected b=2, got %#v", got["b"])
		}
		if got["shared"].(string) != "new" {
			t.Fatalf("expected shared to be overwritten to 'new', got %#v", got["shared"])
		}
	})
}

func TestWriteError_WritesErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, tderrors.ErrCodeInvalidRequest, "bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Code != string(tderrors.ErrCodeInvalidRequest) {
		t.Fatalf("expected code %q, got %q", tderrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.Message != "bad request" {
		t.Fatalf("expected message %q, got %q", "bad request", resp.Message)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("expected requestId %q, got %q", "req-123", resp.RequestID)
	}
	if resp.Retryable {
		t.Fatalf("expected retryable=false, got true")
	}
	if resp.Details == nil || resp.Details["k"].(string) != "v" {
		t.Fatalf("expected details to include k=v, got %#v", resp.Details)
	}
}

func TestWriteErrorFromErr_StructuredErrorMapsStatusAndDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	cause := errors.New("embedded store failed to load")
	err := tderrors.WrapWithContext(tderrors.ErrCodeUnavailable, "tuning store unavailable", cause, map[string]any{"component": "store"})

	WriteErrorFromErr(w, req, err, "fallback", map[string]any{"extra": "yes"})

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}

	var resp ErrorResponse
	if uerr := json.Unmarshal(w.Body.Bytes(), &resp); uerr != nil {
		t.Fatalf("failed to unmarshal response: %v", uerr)
	}

	if resp.Code != string(tderrors.ErrCodeUnavailable) {
		t.Fatalf("expected code %q, got %q", tderrors.ErrCodeUnavailable, resp.Code)
	}
	if resp.Message != "tuning store unavailable" {
		t.Fatalf("expected message %q, got %q", "tuning store unavailable", resp.Message)
	}
	if !resp.Retryable {
		t.Fatalf("expected retryable=true")
	}
	if resp.Details == nil {
		t.Fatalf("expected details, got nil")
	}
	if resp.Details["component"].(string) != "store" {
		t.Fatalf("expected component=store, got %#v", resp.Details["component"])
	}
	if resp.Details["extra"].(string) != "yes" {
		t.Fatalf("expected extra=yes, got %#v", resp.Details["extra"])
	}
	if resp.Details["error"].(string) != "embedded store failed to load" {
		t.Fatalf("expected error cause propagated, got %#v", resp.Details["error"])
	}
}

func TestWriteErrorFromErr_NonStructuredFallsBackToInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteErrorFromErr(w, req, errors.New("boom"), "fallback", map[string]any{"x": "y"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Code != string(tderrors.ErrCodeInternal) {
		t.Fatalf("expected code %q, got %q", tderrors.ErrCodeInternal, resp.Code)
	}
	if !resp.Retryable {
		t.Fatalf("expected retryable=true")
	}
	if resp.Details == nil || resp.Details["x"].(string) != "y" {
		t.Fatalf("expected details to include x=y, got %#v", resp.Details)
	}
	if resp.Details["error"].(string) != "boom" {
		t.Fatalf("expected details error=boom, got %#v", resp.Details["error"])
	}
}
