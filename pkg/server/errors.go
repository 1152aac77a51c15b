package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
	"github.com/kernel-tuning/tunedb/pkg/serializer"
)

// HTTPStatusFromCode maps an error code to its HTTP status.
func HTTPStatusFromCode(code tderrors.ErrorCode) int {
	switch code {
	case tderrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case tderrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case tderrors.ErrCodeNotFound:
		return http.StatusNotFound
	case tderrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case tderrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case tderrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case tderrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code tderrors.ErrorCode) bool {
	switch code {
	case tderrors.ErrCodeTimeout, tderrors.ErrCodeUnavailable,
		tderrors.ErrCodeRateLimitExceeded, tderrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse with the request ID of r.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code tderrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr writes err as an ErrorResponse. A StructuredError keeps
// its code, message and context; anything else becomes an internal error
// with fallbackMessage. The cause is reported under the "error" detail.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, extraDetails map[string]any) {

	var se *tderrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message,
			retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(extraDetails, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, tderrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(tderrors.ErrCodeInternal), details)
}
