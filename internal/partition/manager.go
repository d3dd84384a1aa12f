package partition

import (
	"context"
	"fmt"
	"sync"

	"github.com/vietddude/arbstats/internal/infra/storage"
	"github.com/vietddude/arbstats/internal/store"
)

// Variant selects the per-bot storage layout.
type Variant string

const (
	// VariantPaged keeps each bot's history as fixed-capacity pages.
	VariantPaged Variant = "paged"

	// VariantPartitioned splits each bot's history into compressed
	// per-day, per-hour buckets with daily aggregation.
	VariantPartitioned Variant = "partitioned"
)

// Config controls how bot partitions are built.
type Config struct {
	Variant  Variant
	PageSize int
}

// Manager owns all partitions: one per bot identity plus the registry and
// global-index singletons. Partition objects are created lazily and live
// for the process lifetime, so all requests for one bot funnel through
// the same single-writer state.
type Manager struct {
	mu   sync.Mutex
	bots map[string]Bot

	cfg      Config
	blobs    storage.BlobStore
	registry *Registry
	index    *GlobalIndex
}

// NewManager creates a partition manager over the given blob store.
func NewManager(blobs storage.BlobStore, cfg Config) *Manager {
	if cfg.Variant == "" {
		cfg.Variant = VariantPartitioned
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = store.DefaultPageSize
	}
	return &Manager{
		bots:     make(map[string]Bot),
		cfg:      cfg,
		blobs:    blobs,
		registry: NewRegistry(blobs),
		index:    NewGlobalIndex(blobs),
	}
}

func botPrefix(botID string) string {
	return fmt.Sprintf("bots/%s/", botID)
}

// Bot returns the partition for a bot identity, creating it on first use.
func (m *Manager) Bot(botID string) Bot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bot, ok := m.bots[botID]; ok {
		return bot
	}
	var bot Bot
	if m.cfg.Variant == VariantPaged {
		bot = newPagedBot(m.blobs, botID, m.cfg.PageSize)
	} else {
		bot = newPartitionedBot(m.blobs, botID)
	}
	m.bots[botID] = bot
	return bot
}

// Registry returns the bot-identity singleton partition.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Index returns the global-index singleton partition.
func (m *Manager) Index() *GlobalIndex {
	return m.index
}

// ResetAll wipes every bot partition known to the registry, then the
// registry and the global index themselves.
func (m *Manager) ResetAll(ctx context.Context) error {
	ids, err := m.registry.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := m.Bot(id).Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset partition %s: %w", id, err)
		}
	}
	if err := m.registry.Reset(ctx); err != nil {
		return err
	}
	if err := m.index.Reset(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.bots = make(map[string]Bot)
	m.mu.Unlock()
	return nil
}
