// Package postgres implements the BlobStore interface on PostgreSQL,
// storing blobs in a single keyed bytea table.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/vietddude/arbstats/internal/infra/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Store is a PostgreSQL-backed BlobStore.
type Store struct {
	db *sqlx.DB
}

// NewStore opens the database, applies migrations and verifies the
// connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM blobs WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, prefix string) error {
	pattern := escapeLike(prefix) + "%"
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key LIKE $1`, pattern); err != nil {
		return fmt.Errorf("failed to delete blobs under %s: %w", prefix, err)
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so a prefix is matched literally.
func escapeLike(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
