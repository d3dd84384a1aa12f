package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage/memory"
	"github.com/vietddude/arbstats/internal/partition"
)

// failingPartitions wraps a real manager but fails every append for one
// sender.
type failingPartitions struct {
	*partition.Manager
	failBot string
}

func (p *failingPartitions) Bot(botID string) partition.Bot {
	if botID == p.failBot {
		return &failingBot{}
	}
	return p.Manager.Bot(botID)
}

type failingBot struct{}

func (b *failingBot) Append(ctx context.Context, events []domain.ArbitrageEvent) error {
	return errors.New("partition unavailable")
}

func (b *failingBot) Trades(ctx context.Context, q partition.TradeQuery) ([]domain.ArbitrageEvent, error) {
	return nil, errors.New("partition unavailable")
}

func (b *failingBot) DailyProfit(ctx context.Context, startDate, endDate string) ([]domain.DailyProfitStats, error) {
	return nil, errors.New("partition unavailable")
}

func (b *failingBot) DailyGas(ctx context.Context, startDate, endDate string) ([]domain.DailyGasStats, error) {
	return nil, errors.New("partition unavailable")
}

func (b *failingBot) Reset(ctx context.Context) error {
	return errors.New("partition unavailable")
}

func testBatch(height uint64, day time.Time) []domain.BatchEvent {
	return []domain.BatchEvent{
		{
			BlockHeight: height - 1,
			Timestamp:   day.Add(time.Hour).UnixNano(),
			Events: []domain.ArbitrageEvent{
				domain.NewSuccessEvent("a.near", 0, 0, "t1", 100, "1000"),
				domain.NewFailureEvent("b.near", 0, 0, "t2", 50),
			},
		},
		{
			BlockHeight: height,
			Timestamp:   day.Add(2 * time.Hour).UnixNano(),
			Events: []domain.ArbitrageEvent{
				domain.NewSuccessEvent("a.near", 0, 0, "t3", 200, "2000"),
			},
		},
	}
}

func TestIngestHappyPath(t *testing.T) {
	ctx := context.Background()
	m := partition.NewManager(memory.NewStore(), partition.Config{})
	c := New(m)

	day := time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)
	if err := c.Ingest(ctx, testBatch(10, day)); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if h, _ := m.Index().Get(ctx); h != 10 {
		t.Errorf("Height = %d, want 10", h)
	}
	ids, _ := m.Registry().List(ctx)
	if len(ids) != 2 {
		t.Errorf("Registry = %v, want 2 bots", ids)
	}

	trades, err := m.Bot("a.near").Trades(ctx, partition.TradeQuery{Date: "2024-04-22"})
	if err != nil {
		t.Fatalf("Trades failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("a.near has %d trades, want 2", len(trades))
	}
	// Events are stamped with their block's height and timestamp.
	if trades[0].BlockHeight != 9 || trades[1].BlockHeight != 10 {
		t.Errorf("Heights = %d, %d; want 9, 10", trades[0].BlockHeight, trades[1].BlockHeight)
	}
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	c := New(partition.NewManager(memory.NewStore(), partition.Config{}))
	err := c.Ingest(context.Background(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestIngestRejectsStaleHeightBeforePartitions(t *testing.T) {
	ctx := context.Background()
	m := partition.NewManager(memory.NewStore(), partition.Config{})
	c := New(m)

	day := time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)
	if err := c.Ingest(ctx, testBatch(10, day)); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// Same height again: rejected, and no partition (or registry) is
	// touched by the duplicate.
	dup := testBatch(10, day)
	dup[0].Events = append(dup[0].Events, domain.NewFailureEvent("c.near", 0, 0, "t9", 1))
	if err := c.Ingest(ctx, dup); !errors.Is(err, domain.ErrStaleHeight) {
		t.Fatalf("err = %v, want ErrStaleHeight", err)
	}

	ids, _ := m.Registry().List(ctx)
	for _, id := range ids {
		if id == "c.near" {
			t.Error("Registry was updated by a rejected batch")
		}
	}
	trades, _ := m.Bot("a.near").Trades(ctx, partition.TradeQuery{Date: "2024-04-22"})
	if len(trades) != 2 {
		t.Errorf("a.near has %d trades after duplicate, want 2", len(trades))
	}
}

func TestIngestPartialFailureKeepsEarlierSenders(t *testing.T) {
	ctx := context.Background()
	inner := partition.NewManager(memory.NewStore(), partition.Config{})
	c := New(&failingPartitions{Manager: inner, failBot: "b.near"})

	day := time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC)
	err := c.Ingest(ctx, testBatch(10, day))
	if err == nil {
		t.Fatal("Expected failure for sender b.near")
	}
	if errors.Is(err, domain.ErrStaleHeight) || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Unexpected error kind: %v", err)
	}

	// Sender a.near (processed before b.near) stays committed, and the
	// height gate already advanced.
	trades, err := inner.Bot("a.near").Trades(ctx, partition.TradeQuery{Date: "2024-04-22"})
	if err != nil {
		t.Fatalf("Trades failed: %v", err)
	}
	if len(trades) != 2 {
		t.Errorf("a.near has %d trades, want 2", len(trades))
	}
	if h, _ := inner.Index().Get(ctx); h != 10 {
		t.Errorf("Height = %d, want 10", h)
	}
}
