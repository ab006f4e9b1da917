package dto

import (
	"time"

	domainavailability "stayfinder/internal/domain/availability"
	domainproperties "stayfinder/internal/domain/properties"
)

// PropertyHost is the owner snapshot shown on cards and detail pages.
type PropertyHost struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Image  string    `json:"image"`
	Joined time.Time `json:"joined"`
}

// PropertySummary is the card shape used by the grid and search results.
type PropertySummary struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Location         string   `json:"location"`
	Images           []string `json:"images"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	Currency         string   `json:"currency"`
	Rating           float64  `json:"rating"`
	ReviewCount      int      `json:"review_count"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	MaxGuests        int      `json:"max_guests"`
	Featured         bool     `json:"featured"`
}

// PropertyDetail adds the full description and the availability calendar.
type PropertyDetail struct {
	PropertySummary
	Description string       `json:"description"`
	Amenities   []string     `json:"amenities"`
	Host        PropertyHost `json:"host"`
	Calendar    Calendar     `json:"calendar"`
}

type PropertyList struct {
	Items []PropertySummary `json:"items"`
	Total int               `json:"total"`
}

func MapPropertySummary(p *domainproperties.Property) PropertySummary {
	if p == nil {
		return PropertySummary{}
	}
	return PropertySummary{
		ID:               string(p.ID),
		Title:            p.Title,
		Location:         p.Location,
		Images:           append([]string(nil), p.Images...),
		NightlyRateCents: p.NightlyRateCents,
		Currency:         p.NightlyRate().Currency,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		Bedrooms:         p.Bedrooms,
		Bathrooms:        p.Bathrooms,
		MaxGuests:        p.MaxGuests,
		Featured:         p.Featured,
	}
}

func MapPropertyDetail(p *domainproperties.Property, cal *domainavailability.Map) PropertyDetail {
	if p == nil {
		return PropertyDetail{}
	}
	return PropertyDetail{
		PropertySummary: MapPropertySummary(p),
		Description:     p.Description,
		Amenities:       append([]string(nil), p.Amenities...),
		Host: PropertyHost{
			ID:     p.Host.ID,
			Name:   p.Host.Name,
			Image:  p.Host.Image,
			Joined: p.Host.Joined,
		},
		Calendar: MapCalendar(cal),
	}
}
