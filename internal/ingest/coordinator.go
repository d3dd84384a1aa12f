// Package ingest fans submitted event batches out to bot partitions.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/partition"
	"github.com/vietddude/arbstats/internal/service/metrics"
)

// Partitions is the slice of the partition manager the coordinator
// needs.
type Partitions interface {
	Index() *partition.GlobalIndex
	Registry() *partition.Registry
	Bot(botID string) partition.Bot
}

// Coordinator applies one batch at a time: height gate first, then the
// registry union, then per-sender forwarding. A sender failure aborts the
// remaining forwards but already-processed senders stay committed; retry
// policy is the submitter's concern.
type Coordinator struct {
	manager Partitions
	log     *slog.Logger
}

// New creates a coordinator over the partition manager.
func New(manager Partitions) *Coordinator {
	return &Coordinator{
		manager: manager,
		log:     slog.Default().With("component", "ingest"),
	}
}

// Ingest applies a batch of per-block events.
func (c *Coordinator) Ingest(ctx context.Context, batch []domain.BatchEvent) error {
	if len(batch) == 0 {
		metrics.BatchesRejected.WithLabelValues("validation").Inc()
		return fmt.Errorf("%w: empty batch", domain.ErrValidation)
	}

	batchID := uuid.NewString()
	height := batch[len(batch)-1].BlockHeight

	if err := c.manager.Index().Advance(ctx, height); err != nil {
		metrics.BatchesRejected.WithLabelValues("stale_height").Inc()
		c.log.Warn("rejected batch", "batch", batchID, "block_height", height, "error", err)
		return err
	}
	c.log.Info("ingesting batch", "batch", batchID, "block_height", height, "blocks", len(batch))

	senders := domain.Senders(batch)
	if err := c.manager.Registry().Add(ctx, senders); err != nil {
		return fmt.Errorf("failed to register senders: %w", err)
	}

	for _, sender := range senders {
		events := domain.EventsBySender(batch, sender)
		if len(events) == 0 {
			continue
		}
		c.log.Info("indexing events", "batch", batchID, "bot", sender, "count", len(events))

		if err := c.manager.Bot(sender).Append(ctx, events); err != nil {
			metrics.BatchesRejected.WithLabelValues("partition_failure").Inc()
			// Earlier senders stay committed; the caller decides
			// whether and what to resubmit.
			return fmt.Errorf("failed to index %d events for %s (batch %s): %w",
				len(events), sender, batchID, err)
		}
		metrics.EventsIndexed.WithLabelValues(sender).Add(float64(len(events)))
	}

	metrics.BatchesIngested.Inc()
	return nil
}
