package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	idleTimeout       = 60 * time.Second

	// Settlement requests wait on the payment gateway, so writes get more room
	// than reads.
	defaultWriteTimeout = 30 * time.Second
)

type Option func(*http.Server)

// WithWriteTimeout raises the write deadline; it never drops below the
// default.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		if d > s.WriteTimeout {
			s.WriteTimeout = d
		}
	}
}

// WithLogger routes net/http's internal errors (TLS handshakes, panics in
// hijacked connections) through slog at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *http.Server) {
		if logger != nil {
			s.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
		}
	}
}

func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       idleTimeout,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}
