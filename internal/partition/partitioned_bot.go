package partition

import (
	"context"
	"sort"
	"sync"

	"github.com/vietddude/arbstats/internal/aggregate"
	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage"
	"github.com/vietddude/arbstats/internal/store"
)

// partitionedBot is the advanced partition variant: per-day, per-hour
// compressed streams split by outcome, with lazily cached daily
// aggregation.
type partitionedBot struct {
	mu     sync.Mutex
	loaded bool

	blobs   storage.BlobStore
	prefix  string
	success *store.Partitioned
	failure *store.Partitioned
	agg     *aggregate.Aggregator
}

func newPartitionedBot(blobs storage.BlobStore, botID string) *partitionedBot {
	prefix := botPrefix(botID)
	success := store.NewPartitioned(blobs, prefix, domain.StatusSuccess)
	failure := store.NewPartitioned(blobs, prefix, domain.StatusFailure)
	return &partitionedBot{
		blobs:   blobs,
		prefix:  prefix,
		success: success,
		failure: failure,
		agg:     aggregate.New(success, failure),
	}
}

func (b *partitionedBot) ensureLoaded(ctx context.Context) error {
	if b.loaded {
		return nil
	}
	if err := b.success.Load(ctx); err != nil {
		return err
	}
	if err := b.failure.Load(ctx); err != nil {
		return err
	}
	b.loaded = true
	return nil
}

// latestDate is this partition's current date across both streams.
func (b *partitionedBot) latestDate() (string, bool) {
	s, okS := b.success.LatestDate()
	f, okF := b.failure.LatestDate()
	switch {
	case okS && okF:
		if f > s {
			return f, true
		}
		return s, true
	case okS:
		return s, true
	case okF:
		return f, true
	}
	return "", false
}

func (b *partitionedBot) Append(ctx context.Context, events []domain.ArbitrageEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return err
	}

	var successes, failures []domain.ArbitrageEvent
	for _, ev := range events {
		if ev.Status == domain.StatusSuccess {
			successes = append(successes, ev)
		} else {
			failures = append(failures, ev)
		}
	}
	if err := b.success.Append(ctx, successes); err != nil {
		return err
	}
	return b.failure.Append(ctx, failures)
}

// Trades lists one date's trades. An empty query date defaults to the
// partition's current date; an empty status merges both streams in
// timestamp order.
func (b *partitionedBot) Trades(ctx context.Context, q TradeQuery) ([]domain.ArbitrageEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	date := q.Date
	if date == "" {
		latest, ok := b.latestDate()
		if !ok {
			return nil, domain.ErrNoData
		}
		date = latest
	} else if _, err := domain.ParseDate(date); err != nil {
		return nil, domain.ErrInvalidRange
	}
	if _, ok := b.latestDate(); !ok {
		return nil, domain.ErrNoData
	}

	var out []domain.ArbitrageEvent
	if q.Status == "" || q.Status == domain.StatusSuccess {
		events, err := b.success.LoadDay(ctx, date)
		if err != nil {
			return nil, err
		}
		out = append(out, events...)
	}
	if q.Status == "" || q.Status == domain.StatusFailure {
		events, err := b.failure.LoadDay(ctx, date)
		if err != nil {
			return nil, err
		}
		out = append(out, events...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (b *partitionedBot) DailyProfit(ctx context.Context, startDate, endDate string) ([]domain.DailyProfitStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if _, ok := b.latestDate(); !ok {
		return nil, domain.ErrNoData
	}
	return b.agg.DailyProfit(ctx, startDate, endDate)
}

func (b *partitionedBot) DailyGas(ctx context.Context, startDate, endDate string) ([]domain.DailyGasStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if _, ok := b.latestDate(); !ok {
		return nil, domain.ErrNoData
	}
	return b.agg.DailyGas(ctx, startDate, endDate)
}

// Reset deletes everything persisted under this bot's prefix and drops
// the event and aggregation caches.
func (b *partitionedBot) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.blobs.DeleteAll(ctx, b.prefix); err != nil {
		return err
	}
	b.success.Clear()
	b.failure.Clear()
	b.agg.Invalidate()
	b.loaded = true
	return nil
}
