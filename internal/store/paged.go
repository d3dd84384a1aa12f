// Package store persists one bot's trade history. Two variants exist:
// Paged keeps the whole history as a sequence of fixed-capacity pages,
// Partitioned splits it into gzip-compressed per-day, per-hour buckets.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage"
)

// DefaultPageSize bounds the number of records in one persisted page.
const DefaultPageSize = 1_000

// Paged is an append-only per-bot event log stored as fixed-capacity
// pages. The full history is kept in memory; pages only bound the size
// of any single persisted blob.
type Paged struct {
	blobs    storage.BlobStore
	prefix   string
	pageSize int

	events []domain.ArbitrageEvent
	index  int // current (last non-empty) page number
}

// NewPaged creates a paged log under the given key prefix. pageSize <= 0
// falls back to DefaultPageSize.
func NewPaged(blobs storage.BlobStore, prefix string, pageSize int) *Paged {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paged{
		blobs:    blobs,
		prefix:   prefix,
		pageSize: pageSize,
	}
}

func (s *Paged) pageKey(index int) string {
	return fmt.Sprintf("%sarbitrages/%d", s.prefix, index)
}

// Load replays pages 0,1,2,... until an empty or missing page, rebuilding
// the in-memory history. Must complete before the store serves requests.
func (s *Paged) Load(ctx context.Context) error {
	s.events = nil
	s.index = 0

	for {
		data, err := s.blobs.Get(ctx, s.pageKey(s.index))
		if errors.Is(err, storage.ErrNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", s.index, err)
		}
		page, err := decodePage(data)
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", s.index, err)
		}
		if len(page) == 0 {
			break
		}
		s.events = append(s.events, page...)
		s.index++
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Append extends the history and rewrites the tail pages so that no
// persisted page ever holds more than pageSize records. Replaying all
// pages afterwards reproduces the in-memory list exactly.
func (s *Paged) Append(ctx context.Context, events []domain.ArbitrageEvent) error {
	if len(events) == 0 {
		return nil
	}
	s.events = append(s.events, events...)

	for {
		tail := s.events[s.index*s.pageSize:]
		page := tail
		if len(page) > s.pageSize {
			page = page[:s.pageSize]
		}
		data, err := encodePage(page)
		if err != nil {
			return err
		}
		if err := s.blobs.Put(ctx, s.pageKey(s.index), data); err != nil {
			return fmt.Errorf("failed to persist page %d: %w", s.index, err)
		}
		if len(tail) <= s.pageSize {
			return nil
		}
		s.index++
	}
}

// Query returns up to limit records in reverse-chronological order after
// skipping the most recent skip records. Out-of-range bounds clamp to the
// available history. An empty status matches all records.
func (s *Paged) Query(limit, skip int, status domain.Status) []domain.ArbitrageEvent {
	events := s.events
	if status != "" {
		events = make([]domain.ArbitrageEvent, 0, len(s.events))
		for _, ev := range s.events {
			if ev.Status == status {
				events = append(events, ev)
			}
		}
	}

	hi := len(events) - skip
	if hi < 0 {
		hi = 0
	}
	lo := hi - limit
	if lo < 0 {
		lo = 0
	}

	out := make([]domain.ArbitrageEvent, 0, hi-lo)
	for i := hi - 1; i >= lo; i-- {
		out = append(out, events[i])
	}
	return out
}

// Len reports the total number of recorded events.
func (s *Paged) Len() int {
	return len(s.events)
}

// Reset clears the in-memory history and deletes all persisted pages.
func (s *Paged) Reset(ctx context.Context) error {
	if err := s.blobs.DeleteAll(ctx, s.prefix); err != nil {
		return fmt.Errorf("failed to reset pages: %w", err)
	}
	s.events = nil
	s.index = 0
	return nil
}
