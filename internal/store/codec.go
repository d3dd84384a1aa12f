package store

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vietddude/arbstats/internal/core/domain"
)

// Pages of the paged variant are stored as plain JSON arrays; hourly
// buckets of the partitioned variant are gzip-compressed JSON.

func encodePage(events []domain.ArbitrageEvent) ([]byte, error) {
	data, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page: %w", err)
	}
	return data, nil
}

func decodePage(data []byte) ([]domain.ArbitrageEvent, error) {
	var events []domain.ArbitrageEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return events, nil
}

func encodeBucket(events []domain.ArbitrageEvent) ([]byte, error) {
	data, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bucket: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress bucket: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress bucket: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBucket(data []byte) ([]domain.ArbitrageEvent, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bucket: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bucket: %w", err)
	}

	var events []domain.ArbitrageEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to decode bucket: %w", err)
	}
	return events, nil
}
