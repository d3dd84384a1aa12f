// Package partition isolates each bot's state behind a single-writer
// boundary. One partition exists per bot identity, plus the registry and
// global-index singletons; operations against one partition run strictly
// sequentially, different partitions run in parallel with no coordination.
package partition

import (
	"context"

	"github.com/vietddude/arbstats/internal/core/domain"
)

// TradeQuery selects trades from a bot partition. Limit and Skip drive
// the paged variant (newest-first pagination); Date drives the
// partitioned variant. Status narrows either variant to one outcome.
type TradeQuery struct {
	Limit  int
	Skip   int
	Date   string
	Status domain.Status
}

// Bot is one bot's partition. Implementations must serialize all calls
// against their own state and finish startup replay before serving the
// first request.
type Bot interface {
	// Append records a batch of this bot's events.
	Append(ctx context.Context, events []domain.ArbitrageEvent) error

	// Trades lists recorded trades for the query.
	Trades(ctx context.Context, q TradeQuery) ([]domain.ArbitrageEvent, error)

	// DailyProfit returns the per-day profit series for the window.
	DailyProfit(ctx context.Context, startDate, endDate string) ([]domain.DailyProfitStats, error)

	// DailyGas returns the per-day gas series for the window.
	DailyGas(ctx context.Context, startDate, endDate string) ([]domain.DailyGasStats, error)

	// Reset wipes all persisted and cached state of this partition.
	Reset(ctx context.Context) error
}
