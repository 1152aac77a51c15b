package serializer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Content types written by the Respond helpers.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
)

// RespondJSON writes data as a JSON response. The body is encoded before
// any header is written, so an encoding failure still yields a clean 500.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	respond(w, statusCode, ContentTypeJSON, buf.Bytes())
}

// RespondText writes already rendered text, such as "#define" lines.
func RespondText(w http.ResponseWriter, statusCode int, text string) {
	respond(w, statusCode, ContentTypeText, []byte(text))
}

func respond(w http.ResponseWriter, statusCode int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		// client went away
		slog.Warn("response write failed", "error", err)
	}
}
