package storage

import (
	"context"
	"errors"

	"github.com/vietddude/arbstats/internal/service/metrics"
)

// WithMetrics wraps a BlobStore so every operation is counted. Not-found
// reads are not counted as errors.
func WithMetrics(next BlobStore) BlobStore {
	return &instrumented{next: next}
}

type instrumented struct {
	next BlobStore
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	metrics.BlobOps.WithLabelValues("get").Inc()
	value, err := s.next.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.BlobOpErrors.WithLabelValues("get").Inc()
	}
	return value, err
}

func (s *instrumented) Put(ctx context.Context, key string, value []byte) error {
	metrics.BlobOps.WithLabelValues("put").Inc()
	err := s.next.Put(ctx, key, value)
	if err != nil {
		metrics.BlobOpErrors.WithLabelValues("put").Inc()
	}
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	metrics.BlobOps.WithLabelValues("delete").Inc()
	err := s.next.Delete(ctx, key)
	if err != nil {
		metrics.BlobOpErrors.WithLabelValues("delete").Inc()
	}
	return err
}

func (s *instrumented) DeleteAll(ctx context.Context, prefix string) error {
	metrics.BlobOps.WithLabelValues("delete_all").Inc()
	err := s.next.DeleteAll(ctx, prefix)
	if err != nil {
		metrics.BlobOpErrors.WithLabelValues("delete_all").Inc()
	}
	return err
}
