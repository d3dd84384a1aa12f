package partition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/arbstats/internal/infra/storage"
)

const registryKey = "registry/bot_ids"

// Registry is the singleton partition tracking every bot identity seen so
// far: union-only growth, persisted as a deduplicated ordered list.
type Registry struct {
	mu     sync.Mutex
	blobs  storage.BlobStore
	loaded bool
	ids    []string // sorted
	set    map[string]struct{}
}

// NewRegistry creates the registry over the given blob store.
func NewRegistry(blobs storage.BlobStore) *Registry {
	return &Registry{
		blobs: blobs,
		set:   make(map[string]struct{}),
	}
}

func (r *Registry) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	data, err := r.blobs.Get(ctx, registryKey)
	if errors.Is(err, storage.ErrNotFound) {
		r.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load bot registry: %w", err)
	}
	if err := json.Unmarshal(data, &r.ids); err != nil {
		return fmt.Errorf("failed to decode bot registry: %w", err)
	}
	for _, id := range r.ids {
		r.set[id] = struct{}{}
	}
	r.loaded = true
	return nil
}

// Add unions the given ids into the registry. Already-known ids are
// idempotent no-ops; the registry is only persisted when it grew.
func (r *Registry) Add(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	grew := false
	for _, id := range ids {
		if _, ok := r.set[id]; ok {
			continue
		}
		r.set[id] = struct{}{}
		r.ids = append(r.ids, id)
		grew = true
	}
	if !grew {
		return nil
	}
	sort.Strings(r.ids)

	data, err := json.Marshal(r.ids)
	if err != nil {
		return fmt.Errorf("failed to encode bot registry: %w", err)
	}
	if err := r.blobs.Put(ctx, registryKey, data); err != nil {
		return fmt.Errorf("failed to persist bot registry: %w", err)
	}
	return nil
}

// List returns the known bot ids, sorted.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out, nil
}

// Reset clears the registry in memory and in storage.
func (r *Registry) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.blobs.Delete(ctx, registryKey); err != nil {
		return fmt.Errorf("failed to reset bot registry: %w", err)
	}
	r.ids = nil
	r.set = make(map[string]struct{})
	r.loaded = true
	return nil
}
