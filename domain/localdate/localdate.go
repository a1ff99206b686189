// Package localdate converts calendar dates in the tenant's civil timezone
// into instants. Range filters over the ledger always go through this package
// so a date-only boundary covers the whole local day no matter what timezone
// the store keeps its timestamps in.
package localdate

import (
	"time"

	"github.com/mintrail/mintrail/domain/entity"
	apperror "github.com/mintrail/mintrail/domain/error"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Zone is the tenant deployment's fixed civil offset (JST, UTC+9).
var Zone = time.FixedZone("JST", 9*60*60)

// Date is a calendar date with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse reads a YYYY-MM-DD string. The bound name is only used to label the
// validation error.
func Parse(bound, value string) (Date, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, apperror.ErrInvalidRange(bound, value)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// StartOfDay returns the instant at local 00:00:00.000 of the date, in UTC.
func (d Date) StartOfDay() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Zone).UTC()
}

// EndOfDay returns the instant at local 23:59:59.999 of the date, in UTC.
// The bound is inclusive; millisecond precision matches the ledger's
// timestamp resolution.
func (d Date) EndOfDay() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 999_000_000, Zone).UTC()
}

// RangeBounds turns optional start/end date strings into inclusive instant
// bounds. Empty strings mean unbounded and yield nil. It never touches a
// store: malformed input fails here, before any query runs.
func RangeBounds(start, end string) (from *time.Time, to *time.Time, err error) {
	if start != "" {
		d, err := Parse("start", start)
		if err != nil {
			return nil, nil, err
		}
		t := d.StartOfDay()
		from = &t
	}
	if end != "" {
		d, err := Parse("end", end)
		if err != nil {
			return nil, nil, err
		}
		t := d.EndOfDay()
		to = &t
	}
	return from, to, nil
}

// WithinBounds reports whether t falls inside the inclusive instant bounds.
// A nil bound is open on that side.
func WithinBounds(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// FilterByLocalDay applies the same local-day bounds a store query would use
// to an in-memory event set, preserving order. Used when a ledger snapshot is
// already in hand and re-querying would be wasteful.
func FilterByLocalDay(events []*entity.DistributionEvent, start, end string) ([]*entity.DistributionEvent, error) {
	from, to, err := RangeBounds(start, end)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return events, nil
	}
	filtered := make([]*entity.DistributionEvent, 0, len(events))
	for _, e := range events {
		if WithinBounds(e.CreatedAt, from, to) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
