// Package health serves the ops endpoints: a liveness probe and the
// Prometheus metrics.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kinobot/core/buildinfo"
	"kinobot/core/logger"
	"log/slog"
)

type healthResponse struct {
	Status  string `json:"status"`
	Bot     string `json:"bot"`
	Version string `json:"version"`
}

// Server is the ops HTTP listener. It runs beside the bot runtime so probes
// keep answering while Telegram is unreachable.
type Server struct {
	srv *http.Server
}

// NewServer builds the listener for addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Bot:     "kinobot",
		Version: buildinfo.Version,
	})
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		logger.HEALTH.Info("ops listener started",
			slog.String("event", "listen"),
			slog.String("listen", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.HEALTH.Error("ops listener failed",
				slog.String("event", "listen"),
				slog.String("listen", s.srv.Addr),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops the listener, waiting briefly for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
