package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alanyoungcy/ethcore/internal/logrelay"
)

const shutdownTimeout = 5 * time.Second

func serveMux(hub *logrelay.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/relay", hub.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// httpServer wraps http.Server with a context-driven lifecycle matching
// the rest of the CLI's signal.NotifyContext-based shutdown.
type httpServer struct {
	addr string
	mux  *http.ServeMux
}

func (s *httpServer) runUntil(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
