package domain

import "errors"

var (
	// ErrValidation is returned when a batch payload is malformed. The
	// whole batch is rejected before any partition is touched.
	ErrValidation = errors.New("malformed batch payload")

	// ErrStaleHeight is returned when a submitted block height does not
	// exceed the last ingested one (duplicate or out-of-order submission).
	ErrStaleHeight = errors.New("block height not increasing")

	// ErrNoData is returned when a bot is queried before anything has
	// been ingested for it. Distinct from an empty range result.
	ErrNoData = errors.New("no data ingested for bot")

	// ErrInvalidRange is returned when caller-supplied date bounds are
	// out of order or wider than the allowed window.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrUnsupported is returned for operations the configured storage
	// variant cannot answer (daily aggregation on the paged variant).
	ErrUnsupported = errors.New("operation not supported by storage variant")
)
