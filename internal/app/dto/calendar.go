package dto

import (
	domainavailability "stayfinder/internal/domain/availability"
)

// Calendar lists the bookable dates for a property. Dates not listed are
// unbookable.
type Calendar struct {
	PropertyID    string   `json:"property_id"`
	BookableDates []string `json:"bookable_dates"`
}

func MapCalendar(m *domainavailability.Map) Calendar {
	if m == nil {
		return Calendar{}
	}
	dates := m.BookableDates()
	out := Calendar{
		PropertyID:    m.PropertyID,
		BookableDates: make([]string, 0, len(dates)),
	}
	for _, d := range dates {
		out.BookableDates = append(out.BookableDates, d.String())
	}
	return out
}
