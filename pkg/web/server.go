package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Serve listens on addr and serves handler until ctx is cancelled, then
// drains in-flight requests.
func Serve(ctx context.Context, addr string, handler http.Handler, logger loggerpkg.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return ServeListener(ctx, ln, handler, logger)
}

// ServeListener is Serve over an existing listener.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, logger loggerpkg.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		loggerpkg.Info(logger, "http server starting", map[string]any{"addr": ln.Addr().String()})
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	loggerpkg.Info(logger, "http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
