// Package httpserver runs the local terminal API.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"clicker/internal/platform/config"
)

// New builds the terminal API server. The presentation layer polls the
// station view, so idle connections are kept open between polls.
func New(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Serve accepts connections on ln until ctx is done, then shuts the server
// down, letting in-flight requests finish within cfg.ShutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, cfg config.HTTPConfig, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	logger.InfoContext(ctx, "terminal API listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("terminal API stopped")
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
