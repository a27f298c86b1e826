package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSOriginMatching(t *testing.T) {
	tests := []struct {
		name      string
		allowed   string
		origin    string
		wantAllow string
	}{
		{name: "wildcard default", allowed: "*", origin: "https://game.example.com", wantAllow: "*"},
		{name: "empty config behaves as wildcard", allowed: "", origin: "https://game.example.com", wantAllow: "*"},
		{name: "listed origin echoed", allowed: "https://game.example.com, https://staging.example.com", origin: "https://staging.example.com", wantAllow: "https://staging.example.com"},
		{name: "unlisted origin gets no header", allowed: "https://game.example.com", origin: "https://evil.example.com", wantAllow: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CORS(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/wallet", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantAllow, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	h := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/wallet", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
}
