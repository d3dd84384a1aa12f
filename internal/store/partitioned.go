package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/infra/storage"
)

const hoursPerDay = 24

// maxCachedDays bounds the in-memory day cache of one stream. Eviction
// drops the oldest cached date first.
const maxCachedDays = 31

// Partitioned stores one status stream (success or failure) of one bot's
// events, split by UTC calendar date and gzip-compressed per hour. Days
// are loaded lazily on first access and cached in memory; only the dates
// touched by an append are re-persisted.
type Partitioned struct {
	blobs  storage.BlobStore
	prefix string
	status domain.Status

	days  map[string][]domain.ArbitrageEvent
	dates []string // sorted ascending, persisted index of dates with data
}

// NewPartitioned creates a partitioned stream under the given key prefix.
func NewPartitioned(blobs storage.BlobStore, prefix string, status domain.Status) *Partitioned {
	return &Partitioned{
		blobs:  blobs,
		prefix: prefix,
		status: status,
		days:   make(map[string][]domain.ArbitrageEvent),
	}
}

func (s *Partitioned) bucketKey(date string, hour int) string {
	return fmt.Sprintf("%sevents/%s/%s/%02d", s.prefix, s.status, date, hour)
}

func (s *Partitioned) datesKey() string {
	return fmt.Sprintf("%sdates/%s", s.prefix, s.status)
}

// Load reads the persisted date index. Must complete before the stream
// serves requests.
func (s *Partitioned) Load(ctx context.Context) error {
	s.days = make(map[string][]domain.ArbitrageEvent)
	s.dates = nil

	data, err := s.blobs.Get(ctx, s.datesKey())
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load date index: %w", err)
	}
	if err := json.Unmarshal(data, &s.dates); err != nil {
		return fmt.Errorf("failed to decode date index: %w", err)
	}
	return nil
}

// Dates returns the dates with persisted data, ascending.
func (s *Partitioned) Dates() []string {
	out := make([]string, len(s.dates))
	copy(out, s.dates)
	return out
}

// LatestDate returns the most recent date with data for this stream.
func (s *Partitioned) LatestDate() (string, bool) {
	if len(s.dates) == 0 {
		return "", false
	}
	return s.dates[len(s.dates)-1], true
}

// LoadDay returns all events of a date in hour order. On first access the
// 24 hourly buckets are fetched in parallel; any bucket failure fails the
// whole load and nothing is cached. Repeated calls for a cached date are
// pure cache reads.
func (s *Partitioned) LoadDay(ctx context.Context, date string) ([]domain.ArbitrageEvent, error) {
	if day, ok := s.days[date]; ok {
		return day, nil
	}

	buckets := make([][]domain.ArbitrageEvent, hoursPerDay)
	errs := make([]error, hoursPerDay)

	var wg sync.WaitGroup
	for hour := 0; hour < hoursPerDay; hour++ {
		wg.Add(1)
		go func(hour int) {
			defer wg.Done()
			data, err := s.blobs.Get(ctx, s.bucketKey(date, hour))
			if errors.Is(err, storage.ErrNotFound) {
				return // absent hour contributes an empty list
			}
			if err != nil {
				errs[hour] = err
				return
			}
			events, err := decodeBucket(data)
			if err != nil {
				errs[hour] = err
				return
			}
			buckets[hour] = events
		}(hour)
	}
	wg.Wait()

	for hour, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to load %s hour %02d: %w", date, hour, err)
		}
	}

	var day []domain.ArbitrageEvent
	for _, bucket := range buckets {
		day = append(day, bucket...)
	}
	// Days without data are not cached, so sweeping arbitrary empty dates
	// cannot grow the cache.
	if len(day) > 0 {
		s.cacheDay(date, day)
	}
	return day, nil
}

// cacheDay stores a loaded day, evicting the oldest cached date once the
// cache is full.
func (s *Partitioned) cacheDay(date string, day []domain.ArbitrageEvent) {
	if _, ok := s.days[date]; !ok && len(s.days) >= maxCachedDays {
		oldest := ""
		for d := range s.days {
			if oldest == "" || d < oldest {
				oldest = d
			}
		}
		delete(s.days, oldest)
	}
	s.days[date] = day
}

// Append records new events, grouping them by date. Each touched date is
// lazily loaded first so previously persisted records are never lost,
// then the whole day is re-bucketed by hour and rewritten. Untouched
// dates are left alone.
func (s *Partitioned) Append(ctx context.Context, events []domain.ArbitrageEvent) error {
	if len(events) == 0 {
		return nil
	}

	byDate := make(map[string][]domain.ArbitrageEvent)
	var order []string
	for _, ev := range events {
		date := domain.DateOf(ev.Timestamp)
		if _, ok := byDate[date]; !ok {
			order = append(order, date)
		}
		byDate[date] = append(byDate[date], ev)
	}

	for _, date := range order {
		day, err := s.LoadDay(ctx, date)
		if err != nil {
			return err
		}
		day = append(day, byDate[date]...)
		s.cacheDay(date, day)

		if err := s.persistDay(ctx, date, day); err != nil {
			return err
		}
		if err := s.indexDate(ctx, date); err != nil {
			return err
		}
	}
	return nil
}

// persistDay splits a full day into its hourly buckets and writes every
// non-empty bucket.
func (s *Partitioned) persistDay(ctx context.Context, date string, day []domain.ArbitrageEvent) error {
	buckets := make([][]domain.ArbitrageEvent, hoursPerDay)
	for _, ev := range day {
		hour := domain.HourOf(ev.Timestamp)
		buckets[hour] = append(buckets[hour], ev)
	}

	for hour, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		data, err := encodeBucket(bucket)
		if err != nil {
			return err
		}
		if err := s.blobs.Put(ctx, s.bucketKey(date, hour), data); err != nil {
			return fmt.Errorf("failed to persist %s hour %02d: %w", date, hour, err)
		}
	}
	return nil
}

// indexDate inserts a date into the persisted index if it is new.
func (s *Partitioned) indexDate(ctx context.Context, date string) error {
	i := sort.SearchStrings(s.dates, date)
	if i < len(s.dates) && s.dates[i] == date {
		return nil
	}
	s.dates = append(s.dates, "")
	copy(s.dates[i+1:], s.dates[i:])
	s.dates[i] = date

	data, err := json.Marshal(s.dates)
	if err != nil {
		return fmt.Errorf("failed to encode date index: %w", err)
	}
	if err := s.blobs.Put(ctx, s.datesKey(), data); err != nil {
		return fmt.Errorf("failed to persist date index: %w", err)
	}
	return nil
}

// Clear drops the in-memory caches. Persisted blobs are deleted by the
// owning partition's prefix-wide reset.
func (s *Partitioned) Clear() {
	s.days = make(map[string][]domain.ArbitrageEvent)
	s.dates = nil
}
