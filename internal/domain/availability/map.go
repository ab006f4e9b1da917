package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/events"
)

var ErrRangeUnavailable = errors.New("availability: range includes unbookable dates")

// Map records, per property, which calendar dates can be booked. Absent dates
// are unbookable: the calendar is closed-world, a host has to mark a date
// before guests can stay on it.
type Map struct {
	PropertyID string
	days       map[calendar.Date]bool
	Version    int64
	events.EventRecorder
}

// NewMap builds an empty calendar for the property.
func NewMap(propertyID string) *Map {
	return &Map{PropertyID: propertyID, days: make(map[calendar.Date]bool)}
}

// IsBookable reports the mapped value, false when the date is absent.
func (m *Map) IsBookable(d calendar.Date) bool {
	if m == nil || m.days == nil {
		return false
	}
	return m.days[d]
}

// BookableRun reports whether every date in the half-open [start, end) is
// bookable. An empty or inverted interval is not a run.
func (m *Map) BookableRun(start, end calendar.Date) bool {
	if !end.After(start) {
		return false
	}
	for d := start; d.Before(end); d = d.AddDays(1) {
		if !m.IsBookable(d) {
			return false
		}
	}
	return true
}

// SetBookable marks or unmarks a single date. Host/admin side only.
func (m *Map) SetBookable(d calendar.Date, bookable bool) {
	if m.days == nil {
		m.days = make(map[calendar.Date]bool)
	}
	if bookable {
		m.days[d] = true
		return
	}
	delete(m.days, d)
}

// Reserve removes every night of the stay from the bookable set once a
// booking is confirmed. The whole run must still be bookable.
func (m *Map) Reserve(dr daterange.DateRange, bookingID string, now time.Time) error {
	if !m.BookableRun(dr.CheckIn, dr.CheckOut) {
		return ErrRangeUnavailable
	}
	for _, d := range dr.Days() {
		delete(m.days, d)
	}
	m.Record(DatesReserved{PropertyID: m.PropertyID, BookingID: bookingID, Range: dr, At: now.UTC()})
	return nil
}

// BookableDates returns the marked dates in ascending order.
func (m *Map) BookableDates() []calendar.Date {
	if m == nil {
		return nil
	}
	out := make([]calendar.Date, 0, len(m.days))
	for d, ok := range m.days {
		if ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Snapshot clones the map so read paths never share state with writers.
func (m *Map) Snapshot() *Map {
	clone := NewMap(m.PropertyID)
	clone.Version = m.Version
	for d, ok := range m.days {
		clone.days[d] = ok
	}
	return clone
}

// Repository loads and stores availability maps keyed by property.
// ForProperty hands the caller its own copy; changes land only through Save.
type Repository interface {
	ForProperty(ctx context.Context, propertyID string) (*Map, error)
	Save(ctx context.Context, m *Map) error
}
