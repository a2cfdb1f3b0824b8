package httpserver

import (
	"net/http"
	"time"
)

// New builds the server for the governance API. Per-request timeouts are
// enforced by handler middleware; only the header read is bounded here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
