// Package server exposes the converter over HTTP: a JSON API, on-demand
// swatch PNGs and the browser UI.
package server

import (
	"io/fs"
	"net/http"
	"os"
)

// Config configures the HTTP handler.
type Config struct {
	// Web holds the browser UI. WebDir, when set, takes precedence so the
	// page can be edited without rebuilding.
	Web      fs.FS
	WebDir   string
	API      *API
	Swatches *OnDemandSwatches
}

// NewHandler builds the server mux.
func NewHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.API != nil {
		cfg.API.Register(mux)
	}

	if cfg.Swatches != nil {
		mux.Handle("/swatches/", cfg.Swatches.Handler())
		mux.Handle("/status", cfg.Swatches.StatusHandler())
	}

	web := cfg.Web
	if cfg.WebDir != "" {
		web = os.DirFS(cfg.WebDir)
	}
	if web != nil {
		mux.Handle("/", http.FileServerFS(web))
	}

	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
