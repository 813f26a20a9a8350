// Command example runs an application with its email previews mounted
// under /_previews.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/pthm/mailpreview/example/emails"
	"github.com/pthm/mailpreview/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<p>Acme is running. See <a href="/_previews/">email previews</a>.</p>`))
	})

	// Previews serve their own routes below the base path.
	previews := server.New(emails.Previews,
		server.WithBasePath("/_previews"),
		server.WithTitle("Acme emails"),
		server.WithLogger(logger),
	)
	mux.Handle("/_previews/", previews)

	addr := ":8080"
	logger.Info("starting server", "url", "http://localhost"+addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
