package httpserver

import (
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	// Registration and profile submissions upload photos; the read timeout
	// leaves room for a slow connection to push the full multipart body.
	readTimeout = 2 * time.Minute
	idleTimeout = 2 * time.Minute
)

// New builds the local UI server. There is no write timeout: a response can
// be waiting on a backend call that carries no deadline of its own.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
	}
}
