package properties

import (
	"strings"

	"stayfinder/internal/domain/shared/calendar"
)

const (
	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams mirror the public search bar: free-text location, optional
// stay dates and a minimum guest capacity.
type SearchParams struct {
	Location     string
	CheckIn      calendar.Date
	CheckOut     calendar.Date
	Guests       int
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// Normalized returns a sanitized copy: lower-cased location, dropped inverted
// date windows, clamped paging.
func (p SearchParams) Normalized() SearchParams {
	out := p
	out.Location = strings.TrimSpace(strings.ToLower(out.Location))
	if !out.CheckIn.IsZero() && !out.CheckOut.IsZero() && !out.CheckOut.After(out.CheckIn) {
		out.CheckOut = calendar.Date{}
	}
	if out.Guests < 0 {
		out.Guests = 0
	}
	if out.Limit <= 0 {
		out.Limit = defaultSearchLimit
	}
	if out.Limit > maxSearchLimit {
		out.Limit = maxSearchLimit
	}
	if out.Offset < 0 {
		out.Offset = 0
	}
	return out
}

// Matches applies the non-availability filters to a single property.
func (p SearchParams) Matches(property *Property) bool {
	if property == nil {
		return false
	}
	if p.FeaturedOnly && !property.Featured {
		return false
	}
	if p.Guests > 0 && property.MaxGuests < p.Guests {
		return false
	}
	if p.Location != "" && !strings.Contains(strings.ToLower(property.Location), p.Location) {
		return false
	}
	return true
}

type SearchResult struct {
	Items []*Property
	Total int
}
