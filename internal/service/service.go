// Package service assembles the storage backend, partition manager,
// ingestion coordinator and HTTP API into one runnable application.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vietddude/arbstats/internal/api"
	"github.com/vietddude/arbstats/internal/core/config"
	"github.com/vietddude/arbstats/internal/infra/storage"
	"github.com/vietddude/arbstats/internal/infra/storage/memory"
	"github.com/vietddude/arbstats/internal/infra/storage/postgres"
	"github.com/vietddude/arbstats/internal/infra/storage/redisstore"
	"github.com/vietddude/arbstats/internal/ingest"
	"github.com/vietddude/arbstats/internal/partition"
)

// Service is the assembled application.
type Service struct {
	cfg     *config.AppConfig
	manager *partition.Manager
	server  *api.Server
	backend io.Closer
	log     *slog.Logger
}

// OpenBlobStore opens the configured blob backend. The returned closer is
// nil for the memory backend.
func OpenBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, io.Closer, error) {
	switch cfg.Backend {
	case "redis":
		store, err := redisstore.NewStore(cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init redis: %w", err)
		}
		slog.Info("Using Redis storage")
		return store, store, nil
	case "postgres":
		store, err := postgres.NewStore(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init db: %w", err)
		}
		slog.Info("Using PostgreSQL storage")
		return store, store, nil
	case "memory", "":
		slog.Info("Using Memory storage")
		return memory.NewStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// New creates a Service instance with all dependencies initialized.
func New(ctx context.Context, cfg *config.AppConfig) (*Service, error) {
	blobs, closer, err := OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	manager := partition.NewManager(storage.WithMetrics(blobs), partition.Config{
		Variant:  partition.Variant(cfg.Storage.Variant),
		PageSize: cfg.Storage.PageSize,
	})
	coordinator := ingest.New(manager)
	server := api.NewServer(manager, coordinator, cfg.Auth.Token, cfg.Server.Port)

	return &Service{
		cfg:     cfg,
		manager: manager,
		server:  server,
		backend: closer,
		log:     slog.Default().With("component", "service"),
	}, nil
}

// Manager exposes the partition manager for administrative commands.
func (s *Service) Manager() *partition.Manager {
	return s.manager
}

// Handler exposes the HTTP routing table, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler()
}

// Start binds and launches the HTTP server. A failure to bind the
// configured port is returned immediately.
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("starting HTTP server", "port", s.cfg.Server.Port)
	return s.server.Start()
}

// Addr returns the server's bound listen address, valid after Start.
func (s *Service) Addr() string {
	return s.server.Addr()
}

// Stop shuts the HTTP server down and closes the storage backend.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.server.Stop(ctx); err != nil {
		return err
	}
	if s.backend != nil {
		return s.backend.Close()
	}
	return nil
}
