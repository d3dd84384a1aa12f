package domain

import (
	"encoding/json"
	"fmt"
)

// Status discriminates trade outcomes.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusSuccess || s == StatusFailure
}

// ArbitrageEvent is one observed arbitrage trade attempt.
//
// The profit field is only defined for success records. It is kept
// unexported so downstream code has to go through Profit(), which makes
// reading a profit off a failure record impossible by construction.
type ArbitrageEvent struct {
	SenderID    string
	BlockHeight uint64
	Timestamp   int64 // nanoseconds since epoch
	TxHash      string
	GasBurnt    uint64
	Status      Status

	profit string
}

// NewSuccessEvent builds a success record carrying the raw profit
// (decimal string, yoctoNEAR units).
func NewSuccessEvent(senderID string, blockHeight uint64, timestamp int64, txHash string, gasBurnt uint64, profit string) ArbitrageEvent {
	return ArbitrageEvent{
		SenderID:    senderID,
		BlockHeight: blockHeight,
		Timestamp:   timestamp,
		TxHash:      txHash,
		GasBurnt:    gasBurnt,
		Status:      StatusSuccess,
		profit:      profit,
	}
}

// NewFailureEvent builds a failure record. Failed trades still burn gas.
func NewFailureEvent(senderID string, blockHeight uint64, timestamp int64, txHash string, gasBurnt uint64) ArbitrageEvent {
	return ArbitrageEvent{
		SenderID:    senderID,
		BlockHeight: blockHeight,
		Timestamp:   timestamp,
		TxHash:      txHash,
		GasBurnt:    gasBurnt,
		Status:      StatusFailure,
	}
}

// Profit returns the raw profit string and true for success records,
// and ("", false) for failure records.
func (e ArbitrageEvent) Profit() (string, bool) {
	if e.Status != StatusSuccess {
		return "", false
	}
	return e.profit, true
}

type eventJSON struct {
	SenderID    string  `json:"senderId"`
	BlockHeight uint64  `json:"blockHeight,omitempty"`
	Timestamp   int64   `json:"timestamp,omitempty"`
	TxHash      string  `json:"txHash"`
	GasBurnt    uint64  `json:"gasBurnt"`
	Status      Status  `json:"status"`
	Profit      *string `json:"profit,omitempty"`
}

// MarshalJSON emits the wire shape used by the indexer: profit is present
// on success records and absent on failure records.
func (e ArbitrageEvent) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		SenderID:    e.SenderID,
		BlockHeight: e.BlockHeight,
		Timestamp:   e.Timestamp,
		TxHash:      e.TxHash,
		GasBurnt:    e.GasBurnt,
		Status:      e.Status,
	}
	if e.Status == StatusSuccess {
		p := e.profit
		out.Profit = &p
	}
	return json.Marshal(out)
}

// UnmarshalJSON validates the discriminated shape: success must carry
// profit, failure must not. Malformed records are rejected here, before
// any partition is touched.
func (e *ArbitrageEvent) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if raw.SenderID == "" {
		return fmt.Errorf("%w: event missing senderId", ErrValidation)
	}
	if raw.TxHash == "" {
		return fmt.Errorf("%w: event missing txHash", ErrValidation)
	}
	switch raw.Status {
	case StatusSuccess:
		if raw.Profit == nil {
			return fmt.Errorf("%w: success event missing profit", ErrValidation)
		}
		e.profit = *raw.Profit
	case StatusFailure:
		if raw.Profit != nil {
			return fmt.Errorf("%w: failure event must not carry profit", ErrValidation)
		}
		e.profit = ""
	default:
		return fmt.Errorf("%w: unknown event status %q", ErrValidation, raw.Status)
	}
	e.SenderID = raw.SenderID
	e.BlockHeight = raw.BlockHeight
	e.Timestamp = raw.Timestamp
	e.TxHash = raw.TxHash
	e.GasBurnt = raw.GasBurnt
	e.Status = raw.Status
	return nil
}
