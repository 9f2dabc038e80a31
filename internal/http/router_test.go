package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Wiring(t *testing.T) {
	router, _, _ := newTestServer()

	tests := []struct {
		method, path string
		wantStatus   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/api/books", http.StatusOK},
		{http.MethodGet, "/api/books/999999", http.StatusNotFound},
		{http.MethodDelete, "/api/books/ffffffffffffffffffffffff", http.StatusNotFound},
		{http.MethodGet, "/api/files/zz", http.StatusBadRequest},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodPatch, "/api/books", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		w := do(router, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.wantStatus, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_BannerWithoutStaticDir(t *testing.T) {
	router, _, _ := newTestServer()

	w := do(router, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MiniLibrary Backend API", w.Body.String())
}

func TestRouter_RequestIDEcho(t *testing.T) {
	router, _, _ := newTestServer()

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.Header.Set("X-Request-Id", "abc-123")
	w := do(router, r)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))

	// A request without an id gets one assigned.
	w = do(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router, _, _ := newTestServer()

	w := do(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
