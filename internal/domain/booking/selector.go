package booking

import (
	"stayfinder/internal/domain/availability"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
)

// SelectorState names the three selection states of the calendar picker.
type SelectorState string

const (
	SelectorEmpty SelectorState = "EMPTY"
	SelectorOne   SelectorState = "ONE_SELECTED"
	SelectorTwo   SelectorState = "TWO_SELECTED"
)

// RangeSelector tracks the guest's zero/one/two-date pick on a property
// calendar. Every pick has a defined transition; a pick that cannot extend
// the current selection restarts it from the new date, which is how users
// correct themselves on a two-sided picker. The selector never errors.
type RangeSelector struct {
	calendar *availability.Map
	start    calendar.Date
	end      calendar.Date
}

// NewRangeSelector binds a selector to an availability snapshot.
func NewRangeSelector(m *availability.Map) *RangeSelector {
	return &RangeSelector{calendar: m}
}

func (s *RangeSelector) State() SelectorState {
	switch {
	case s.start.IsZero():
		return SelectorEmpty
	case s.end.IsZero():
		return SelectorOne
	default:
		return SelectorTwo
	}
}

// Pick feeds one date into the selector.
//
// Empty         -> one selected date.
// One selected  -> two selected when the pick is later and every night in
//                  between is bookable; otherwise restart from the pick.
// Two selected  -> restart from the pick.
func (s *RangeSelector) Pick(d calendar.Date) {
	if d.IsZero() {
		return
	}
	switch s.State() {
	case SelectorEmpty:
		s.start = d
	case SelectorOne:
		if d.After(s.start) && s.calendar.BookableRun(s.start, d) {
			s.end = d
			return
		}
		s.start = d
		s.end = calendar.Date{}
	case SelectorTwo:
		s.start = d
		s.end = calendar.Date{}
	}
}

// Clear resets the selection from any state.
func (s *RangeSelector) Clear() {
	s.start = calendar.Date{}
	s.end = calendar.Date{}
}

// Selected returns the single picked date while in the one-selected state.
func (s *RangeSelector) Selected() (calendar.Date, bool) {
	if s.State() != SelectorOne {
		return calendar.Date{}, false
	}
	return s.start, true
}

// Range returns the completed stay range, valid only in the two-selected
// state.
func (s *RangeSelector) Range() (daterange.DateRange, bool) {
	if s.State() != SelectorTwo {
		return daterange.DateRange{}, false
	}
	return daterange.DateRange{CheckIn: s.start, CheckOut: s.end}, true
}
