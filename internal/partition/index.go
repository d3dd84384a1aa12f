package partition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage"
	"github.com/vietddude/arbstats/internal/service/metrics"
)

const indexKey = "info"

type indexState struct {
	LastBlockHeight uint64 `json:"lastBlockHeight"`
}

// GlobalIndex is the singleton partition tracking the latest ingested
// block height. Heights must strictly increase; a stale or duplicate
// height rejects the whole submission.
type GlobalIndex struct {
	mu     sync.Mutex
	blobs  storage.BlobStore
	loaded bool
	last   uint64
}

// NewGlobalIndex creates the index over the given blob store.
func NewGlobalIndex(blobs storage.BlobStore) *GlobalIndex {
	return &GlobalIndex{blobs: blobs}
}

func (g *GlobalIndex) ensureLoaded(ctx context.Context) error {
	if g.loaded {
		return nil
	}

	data, err := g.blobs.Get(ctx, indexKey)
	if errors.Is(err, storage.ErrNotFound) {
		g.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load global index: %w", err)
	}
	var state indexState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to decode global index: %w", err)
	}
	g.last = state.LastBlockHeight
	g.loaded = true
	return nil
}

// Get returns the last ingested block height, 0 if never set.
func (g *GlobalIndex) Get(ctx context.Context) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	return g.last, nil
}

// Advance persists a new height. It fails with ErrStaleHeight and leaves
// state unchanged unless height exceeds the current one.
func (g *GlobalIndex) Advance(ctx context.Context, height uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoaded(ctx); err != nil {
		return err
	}
	if height <= g.last {
		return fmt.Errorf("%w: got %d, last %d", domain.ErrStaleHeight, height, g.last)
	}

	data, err := json.Marshal(indexState{LastBlockHeight: height})
	if err != nil {
		return fmt.Errorf("failed to encode global index: %w", err)
	}
	if err := g.blobs.Put(ctx, indexKey, data); err != nil {
		return fmt.Errorf("failed to persist global index: %w", err)
	}
	g.last = height
	metrics.LastBlockHeight.Set(float64(height))
	return nil
}

// Reset clears the index in memory and in storage.
func (g *GlobalIndex) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.blobs.Delete(ctx, indexKey); err != nil {
		return fmt.Errorf("failed to reset global index: %w", err)
	}
	g.last = 0
	g.loaded = true
	return nil
}
