package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/daghlis/gallery-backend/pkg/logger"
)

// DefaultDrainTimeout bounds how long shutdown waits for in-flight requests.
// It is longer than the gateway timeout so a submit can finish.
const DefaultDrainTimeout = 20 * time.Second

// NewServer returns the HTTP server cmd/api runs.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Serve accepts connections on ln until ctx is done, then shuts the server
// down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logg *logger.Logger, drain time.Duration) error {
	if drain <= 0 {
		drain = DefaultDrainTimeout
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	if logg != nil {
		logg.Info(ctx, "api.shutdown_started")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
