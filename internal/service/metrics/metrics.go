package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BatchesIngested tracks accepted event batches
	BatchesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arbstats_batches_ingested_total",
			Help: "Total number of accepted event batches",
		},
	)

	// BatchesRejected tracks rejected event batches per reason
	BatchesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_batches_rejected_total",
			Help: "Total number of rejected event batches",
		},
		[]string{"reason"},
	)

	// EventsIndexed tracks indexed trade events per bot
	EventsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_events_indexed_total",
			Help: "Total number of trade events indexed",
		},
		[]string{"bot"},
	)

	// LastBlockHeight tracks the latest ingested block height
	LastBlockHeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arbstats_last_block_height",
			Help: "Latest ingested block height",
		},
	)

	// BlobOps tracks blob store operations
	BlobOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_blob_ops_total",
			Help: "Total number of blob store operations",
		},
		[]string{"op"},
	)

	// BlobOpErrors tracks failed blob store operations
	BlobOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_blob_op_errors_total",
			Help: "Total number of failed blob store operations",
		},
		[]string{"op"},
	)

	// AggregateCacheHits tracks daily aggregation cache hits per series
	AggregateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_aggregate_cache_hits_total",
			Help: "Total number of daily aggregation cache hits",
		},
		[]string{"series"},
	)

	// AggregateCacheMisses tracks daily aggregation cache misses per series
	AggregateCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbstats_aggregate_cache_misses_total",
			Help: "Total number of daily aggregation cache misses",
		},
		[]string{"series"},
	)

	// QueryDuration tracks query handling latency per operation
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbstats_query_duration_seconds",
			Help:    "Query handling latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
