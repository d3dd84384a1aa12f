package domain

import "time"

// DateLayout is the calendar-day key format used for partitioning and
// range queries, always UTC.
const DateLayout = "2006-01-02"

// DateOf truncates a nanosecond timestamp to its UTC calendar date.
func DateOf(tsNanos int64) string {
	return time.Unix(0, tsNanos).UTC().Format(DateLayout)
}

// HourOf returns the UTC hour-of-day (0..23) of a nanosecond timestamp.
func HourOf(tsNanos int64) int {
	return time.Unix(0, tsNanos).UTC().Hour()
}

// ParseDate parses a YYYY-MM-DD date key.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// DayBounds returns the inclusive [from, to] millisecond bounds of a UTC
// calendar date. The date must already be validated.
func DayBounds(date string) (from, to int64) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, 0
	}
	from = t.UnixMilli()
	to = from + 24*int64(time.Hour/time.Millisecond) - 1
	return from, to
}

// AddDays shifts a date key by n calendar days.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}
