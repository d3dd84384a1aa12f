package domain

// BatchEvent is one indexed block's worth of events. The indexer submits
// batches in non-decreasing blockHeight order; the last element of a
// submission determines the current block height.
type BatchEvent struct {
	BlockHeight uint64           `json:"blockHeight"`
	Timestamp   int64            `json:"timestamp"`
	Events      []ArbitrageEvent `json:"events"`
}

// Senders returns the distinct sender ids of a batch in first-appearance
// order.
func Senders(batch []BatchEvent) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, block := range batch {
		for _, ev := range block.Events {
			if _, ok := seen[ev.SenderID]; ok {
				continue
			}
			seen[ev.SenderID] = struct{}{}
			out = append(out, ev.SenderID)
		}
	}
	return out
}

// EventsBySender flattens a batch into the events of a single sender,
// stamping each event with its block's height and timestamp.
func EventsBySender(batch []BatchEvent, senderID string) []ArbitrageEvent {
	var out []ArbitrageEvent
	for _, block := range batch {
		for _, ev := range block.Events {
			if ev.SenderID != senderID {
				continue
			}
			ev.BlockHeight = block.BlockHeight
			ev.Timestamp = block.Timestamp
			out = append(out, ev)
		}
	}
	return out
}
