package partition

import (
	"context"
	"sync"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage"
	"github.com/vietddude/arbstats/internal/store"
)

// pagedBot is the simple partition variant: one append-only paged log per
// bot. Daily aggregation is not available on this variant.
type pagedBot struct {
	mu     sync.Mutex
	loaded bool
	log    *store.Paged
}

func newPagedBot(blobs storage.BlobStore, botID string, pageSize int) *pagedBot {
	return &pagedBot{
		log: store.NewPaged(blobs, botPrefix(botID), pageSize),
	}
}

// ensureLoaded replays persisted pages on first use. Callers hold the
// partition mutex, so concurrent requests block until the replay is done
// rather than seeing partially-initialized state.
func (b *pagedBot) ensureLoaded(ctx context.Context) error {
	if b.loaded {
		return nil
	}
	if err := b.log.Load(ctx); err != nil {
		return err
	}
	b.loaded = true
	return nil
}

func (b *pagedBot) Append(ctx context.Context, events []domain.ArbitrageEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return err
	}
	return b.log.Append(ctx, events)
}

func (b *pagedBot) Trades(ctx context.Context, q TradeQuery) ([]domain.ArbitrageEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if b.log.Len() == 0 {
		return nil, domain.ErrNoData
	}
	return b.log.Query(q.Limit, q.Skip, q.Status), nil
}

func (b *pagedBot) DailyProfit(ctx context.Context, startDate, endDate string) ([]domain.DailyProfitStats, error) {
	return nil, domain.ErrUnsupported
}

func (b *pagedBot) DailyGas(ctx context.Context, startDate, endDate string) ([]domain.DailyGasStats, error) {
	return nil, domain.ErrUnsupported
}

func (b *pagedBot) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.log.Reset(ctx); err != nil {
		return err
	}
	b.loaded = true
	return nil
}
