// Package health serves liveness and readiness probes over HTTP.
//
// The MCP transport owns stdout, so operational probes get their own
// listener. The server is disabled entirely when no address is configured.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/koustreak/timescale-mcp/internal/database"
	"github.com/koustreak/timescale-mcp/internal/errs"
)

// readyTimeout bounds the database ping behind /readyz.
const readyTimeout = 5 * time.Second

// drainTimeout bounds the graceful shutdown once ctx is cancelled.
const drainTimeout = 10 * time.Second

// Server exposes /healthz and /readyz on its own listener.
type Server struct {
	httpServer *http.Server
	db         database.DB
	log        zerolog.Logger
}

// New builds the probe server. addr is the listen address, e.g. ":8081".
func New(addr string, db database.DB, log zerolog.Logger) *Server {
	s := &Server{db: db, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Serve blocks until ctx is cancelled, then drains in-flight probe
// requests before returning.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("health server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleHealthz reports process liveness only. It must stay dependency-free
// so a wedged pool cannot fail the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleReadyz reports whether the database is reachable, plus a snapshot
// of the connection pool.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("readiness probe failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  errs.Kind(err).String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"pool":   s.db.Stat(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
