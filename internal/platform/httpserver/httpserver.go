package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with conservative timeouts. Session and
// eligibility endpoints answer from memory, so nothing here should run long.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
