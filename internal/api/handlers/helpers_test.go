package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteJSON(rec, req, http.StatusTeapot, map[string]string{"error": "short and stout"})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"short and stout"}`, rec.Body.String())
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 5_000_000, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-03-01T08:30:00.005Z", timestamp(ts))
}
