package http

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minilibrary/internal/httpx"
)

// RouterConfig carries the knobs main reads from the environment.
type RouterConfig struct {
	CORSOrigins  []string
	MaxBodyBytes int64
	RateRPS      float64
	RateBurst    int
	StaticDir    string
	// Ready reports store readiness for /readyz.
	Ready func(ctx context.Context) error
}

// NewRouter wires all routes and the middleware chain.
func NewRouter(books *BookHandler, files *FileHandler, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("GET /api/books", books.List)
	mux.HandleFunc("POST /api/books", books.Create)
	mux.HandleFunc("GET /api/books/{id}", books.Get)
	mux.HandleFunc("PUT /api/books/{id}", books.Update)
	mux.HandleFunc("DELETE /api/books/{id}", books.Delete)
	mux.HandleFunc("POST /api/books/{id}/upload-pdf", books.UploadPDF)
	mux.HandleFunc("GET /api/files/{id}", files.Get)

	if cfg.StaticDir != "" {
		mux.Handle("/", spaHandler(cfg.StaticDir))
	} else {
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("MiniLibrary Backend API"))
		})
	}

	var handler http.Handler = mux
	if cfg.MaxBodyBytes > 0 {
		handler = httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes)(handler)
	}
	if cfg.RateRPS > 0 {
		handler = httpx.NewRateLimitMiddleware(cfg.RateRPS, cfg.RateBurst).Middleware(handler)
	}
	if len(cfg.CORSOrigins) > 0 {
		handler = httpx.CORSMiddleware(cfg.CORSOrigins)(handler)
	}
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)
	return handler
}

// spaHandler serves files from dir, falling back to index.html so client-side
// routes resolve after a hard refresh.
func spaHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}
