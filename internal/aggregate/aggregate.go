// Package aggregate computes per-day profit and gas series for one bot
// over a bounded date window, caching finished days.
package aggregate

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vietddude/arbstats/internal/core/domain"
	"github.com/vietddude/arbstats/internal/service/metrics"
)

// WindowDays is the widest date window a caller may request: a window of
// 7 calendar dates (end minus start strictly less than 7 days).
const WindowDays = 7

// Stream is one status stream of a bot's partitioned event store.
type Stream interface {
	// LoadDay returns all events of a UTC date in chronological order.
	LoadDay(ctx context.Context, date string) ([]domain.ArbitrageEvent, error)

	// LatestDate returns the most recent date with data in this stream.
	LatestDate() (string, bool)
}

// maxCachedDates bounds each per-date result cache. Eviction drops the
// oldest date first.
const maxCachedDates = 64

// Aggregator owns the per-date result caches of one partition. Only days
// strictly before the partition's own latest ingested date are cached:
// the current date and anything beyond it may still receive events, so
// those results are recomputed on every call.
type Aggregator struct {
	success Stream
	failure Stream

	profitCache map[string]domain.DailyProfitStats
	gasCache    map[string]domain.DailyGasStats
}

// New creates an aggregator over a bot's success and failure streams.
func New(success, failure Stream) *Aggregator {
	return &Aggregator{
		success:     success,
		failure:     failure,
		profitCache: make(map[string]domain.DailyProfitStats),
		gasCache:    make(map[string]domain.DailyGasStats),
	}
}

// latestDate is the partition's current date: the most recent date with
// any ingested data in either stream.
func (a *Aggregator) latestDate() (string, bool) {
	s, okS := a.success.LatestDate()
	f, okF := a.failure.LatestDate()
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

// window resolves the requested [startDate, endDate] bounds into the list
// of dates to aggregate, ascending. Missing bounds default to a
// WindowDays-wide window anchored at the partition's current date.
func (a *Aggregator) window(startDate, endDate string) ([]string, error) {
	switch {
	case startDate == "" && endDate == "":
		latest, ok := a.latestDate()
		if !ok {
			return nil, domain.ErrNoData
		}
		endDate = latest
		startDate = domain.AddDays(endDate, -(WindowDays - 1))
	case startDate == "":
		if _, err := domain.ParseDate(endDate); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		startDate = domain.AddDays(endDate, -(WindowDays - 1))
	case endDate == "":
		if _, err := domain.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		endDate = domain.AddDays(startDate, WindowDays-1)
	default:
		start, err := domain.ParseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		end, err := domain.ParseDate(endDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRange, err)
		}
		if start.After(end) {
			return nil, fmt.Errorf("%w: start %s after end %s", domain.ErrInvalidRange, startDate, endDate)
		}
		if days := int(end.Sub(start).Hours() / 24); days >= WindowDays {
			return nil, fmt.Errorf("%w: span of %d days exceeds %d", domain.ErrInvalidRange, days, WindowDays-1)
		}
	}

	var dates []string
	for date := startDate; date <= endDate; date = domain.AddDays(date, 1) {
		dates = append(dates, date)
	}
	return dates, nil
}

// DailyProfit returns the per-day profit series for the window, ascending
// by date. Only success events carry profit.
func (a *Aggregator) DailyProfit(ctx context.Context, startDate, endDate string) ([]domain.DailyProfitStats, error) {
	dates, err := a.window(startDate, endDate)
	if err != nil {
		return nil, err
	}
	latest, _ := a.latestDate()

	out := make([]domain.DailyProfitStats, 0, len(dates))
	for _, date := range dates {
		if st, ok := a.profitCache[date]; ok && date < latest {
			metrics.AggregateCacheHits.WithLabelValues("profit").Inc()
			out = append(out, st)
			continue
		}
		metrics.AggregateCacheMisses.WithLabelValues("profit").Inc()

		events, err := a.success.LoadDay(ctx, date)
		if err != nil {
			return nil, err
		}
		sum := new(big.Int)
		for _, ev := range events {
			profit, ok := ev.Profit()
			if !ok {
				continue
			}
			value, ok := new(big.Int).SetString(profit, 10)
			if !ok {
				return nil, fmt.Errorf("malformed profit %q in tx %s", profit, ev.TxHash)
			}
			sum.Add(sum, value)
		}

		from, to := domain.DayBounds(date)
		st := domain.DailyProfitStats{
			Date:        date,
			From:        from,
			To:          to,
			Profits:     sum.String(),
			ProfitsNear: ScaleNear(sum),
		}
		if date < latest {
			evictIfFull(a.profitCache)
			a.profitCache[date] = st
		}
		out = append(out, st)
	}
	return out, nil
}

// DailyGas returns the per-day gas series for the window, ascending by
// date. Gas is summed across both streams; a date with data in only one
// stream still contributes its full sum.
func (a *Aggregator) DailyGas(ctx context.Context, startDate, endDate string) ([]domain.DailyGasStats, error) {
	dates, err := a.window(startDate, endDate)
	if err != nil {
		return nil, err
	}
	latest, _ := a.latestDate()

	out := make([]domain.DailyGasStats, 0, len(dates))
	for _, date := range dates {
		if st, ok := a.gasCache[date]; ok && date < latest {
			metrics.AggregateCacheHits.WithLabelValues("gas").Inc()
			out = append(out, st)
			continue
		}
		metrics.AggregateCacheMisses.WithLabelValues("gas").Inc()

		sum := new(big.Int)
		for _, stream := range []Stream{a.success, a.failure} {
			events, err := stream.LoadDay(ctx, date)
			if err != nil {
				return nil, err
			}
			for _, ev := range events {
				sum.Add(sum, new(big.Int).SetUint64(ev.GasBurnt))
			}
		}

		from, to := domain.DayBounds(date)
		st := domain.DailyGasStats{
			Date:      date,
			From:      from,
			To:        to,
			GasBurnt:  sum.String(),
			NearBurnt: ScaleGas(sum),
		}
		if date < latest {
			evictIfFull(a.gasCache)
			a.gasCache[date] = st
		}
		out = append(out, st)
	}
	return out, nil
}

// evictIfFull drops the oldest cached date once the cache reaches
// maxCachedDates, keeping the maps bounded however many distinct windows
// get queried.
func evictIfFull[V any](cache map[string]V) {
	if len(cache) < maxCachedDates {
		return
	}
	oldest := ""
	for date := range cache {
		if oldest == "" || date < oldest {
			oldest = date
		}
	}
	delete(cache, oldest)
}

// Invalidate drops both result caches. Called on partition reset; there
// is no TTL, correctness relies on caching only dates strictly before the
// partition-current one.
func (a *Aggregator) Invalidate() {
	a.profitCache = make(map[string]domain.DailyProfitStats)
	a.gasCache = make(map[string]domain.DailyGasStats)
}
