package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// timestampLayout matches millisecond ISO-8601 UTC timestamps.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	WriteJSON(w, r, status, map[string]string{"error": msg})
}

func timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
