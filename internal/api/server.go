// Package api exposes the query and ingestion surface over HTTP. The
// layer is deliberately thin: request validation and forwarding only, all
// semantics live in the partition, store and aggregate packages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/ingest"
	"github.com/vietddude/arbstats/internal/partition"
	"github.com/vietddude/arbstats/internal/service/metrics"
)

const (
	defaultLimit = 100
	maxLimit     = 1_000
)

// Server serves the arbstats HTTP API.
type Server struct {
	manager     *partition.Manager
	coordinator *ingest.Coordinator
	token       string
	server      *http.Server
	ln          net.Listener
	log         *slog.Logger
}

// NewServer creates the API server. token guards the ingestion and reset
// endpoints.
func NewServer(manager *partition.Manager, coordinator *ingest.Coordinator, token string, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		manager:     manager,
		coordinator: coordinator,
		token:       token,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: slog.Default().With("component", "api"),
	}

	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /bots", s.handleListBots)
	mux.HandleFunc("GET /bots/{bot_id}", s.handleTrades)
	mux.HandleFunc("GET /bots/{bot_id}/daily/profit", s.handleDailyProfit)
	mux.HandleFunc("GET /bots/{bot_id}/daily/gas", s.handleDailyGas)
	mux.Handle("POST /batch", s.requireAuth(http.HandlerFunc(s.handleIngest)))
	mux.Handle("DELETE /batch", s.requireAuth(http.HandlerFunc(s.handleReset)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler exposes the routing table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listen address and serves in the background. Bind
// failures are returned synchronously so startup fails fast.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.ln = ln

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address. Valid after Start; before that it
// is the configured address.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.server.Addr
	}
	return s.ln.Addr().String()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	defer observe("info")()

	height, err := s.manager.Index().Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]uint64{"lastBlockHeight": height})
}

func (s *Server) handleListBots(w http.ResponseWriter, r *http.Request) {
	defer observe("list_bots")()

	ids, err := s.manager.Registry().List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, ids)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	defer observe("trades")()

	query, err := parseTradeQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	botID := r.PathValue("bot_id")
	trades, err := s.manager.Bot(botID).Trades(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if trades == nil {
		trades = []domain.ArbitrageEvent{}
	}
	writeJSON(w, trades)
}

func (s *Server) handleDailyProfit(w http.ResponseWriter, r *http.Request) {
	defer observe("daily_profit")()

	botID := r.PathValue("bot_id")
	stats, err := s.manager.Bot(botID).DailyProfit(
		r.Context(),
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleDailyGas(w http.ResponseWriter, r *http.Request) {
	defer observe("daily_gas")()

	botID := r.PathValue("bot_id")
	stats, err := s.manager.Bot(botID).DailyGas(
		r.Context(),
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	defer observe("ingest")()

	var batch []domain.BatchEvent
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		metrics.BatchesRejected.WithLabelValues("validation").Inc()
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	if err := s.coordinator.Ingest(r.Context(), batch); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	defer observe("reset")()

	s.log.Info("clearing all partitions")
	if err := s.manager.ResetAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("clearing finished")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// parseTradeQuery validates limit/skip/date/status query parameters.
func parseTradeQuery(r *http.Request) (partition.TradeQuery, error) {
	q := partition.TradeQuery{Limit: defaultLimit}
	values := r.URL.Query()

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return q, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrValidation)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		q.Limit = limit
	}
	if raw := values.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return q, fmt.Errorf("%w: skip must be a non-negative integer", domain.ErrValidation)
		}
		q.Skip = skip
	}
	q.Date = values.Get("date")
	if raw := values.Get("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return q, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, raw)
		}
		q.Status = status
	}
	return q, nil
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrStaleHeight):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupported):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
		s.log.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// observe times a handler into the query duration histogram.
func observe(op string) func() {
	start := time.Now()
	return func() {
		metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
