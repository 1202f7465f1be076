// Package period provides calendar-month windows for report aggregation.
package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned for month tokens not of the form YYYY-MM.
var ErrInvalidMonth = errors.New("invalid_month")

// Month identifies one calendar month in UTC.
type Month struct {
	Year  int
	Month time.Month
}

// Parse parses a YYYY-MM token.
func Parse(token string) (Month, error) {
	t, err := time.ParseInLocation("2006-01", token, time.UTC)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the month containing t.
func Of(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the YYYY-MM token.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Window returns the half-open interval [start, end) covering the month.
func (m Month) Window() (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Prev returns the preceding calendar month.
func (m Month) Prev() Month {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return Of(start.AddDate(0, -1, 0))
}

// Trailing returns the n months ending at m, chronological ascending with m
// last. n <= 0 yields an empty slice.
func Trailing(m Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, n)
	cursor := m
	for i := n - 1; i >= 0; i-- {
		months[i] = cursor
		cursor = cursor.Prev()
	}
	return months
}
