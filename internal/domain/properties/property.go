package properties

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayfinder/internal/domain/shared/events"
	"stayfinder/internal/domain/shared/money"
)

var (
	ErrNotFound       = errors.New("properties: not found")
	ErrTitleRequired  = errors.New("properties: title is required")
	ErrHostRequired   = errors.New("properties: host is required")
	ErrGuestsLimit    = errors.New("properties: max guests must be at least 1")
	ErrNightlyRate    = errors.New("properties: nightly rate must be non-negative")
	ErrRatingRange    = errors.New("properties: rating must be between 0 and 10")
	ErrBedroomsRange  = errors.New("properties: bedrooms must be non-negative")
	ErrBathroomsRange = errors.New("properties: bathrooms must be non-negative")
)

type PropertyID string

// Host is the owner snapshot shown on the detail page.
type Host struct {
	ID     string
	Name   string
	Image  string
	Joined time.Time
}

// Property is a rentable unit: the catalog entry guests browse, search and
// book.
type Property struct {
	ID               PropertyID
	Title            string
	Description      string
	Location         string
	Images           []string
	NightlyRateCents int64
	Currency         string
	Rating           float64
	ReviewCount      int
	Amenities        []string
	Bedrooms         int
	Bathrooms        int
	MaxGuests        int
	Featured         bool
	Host             Host
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
	events.EventRecorder
}

// NightlyRate returns the rate as money in the property currency.
func (p *Property) NightlyRate() money.Money {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return money.Money{Amount: p.NightlyRateCents, Currency: currency}
}

type CreateParams struct {
	ID               PropertyID
	Title            string
	Description      string
	Location         string
	Images           []string
	NightlyRateCents int64
	Currency         string
	Rating           float64
	ReviewCount      int
	Amenities        []string
	Bedrooms         int
	Bathrooms        int
	MaxGuests        int
	Featured         bool
	Host             Host
	Now              time.Time
}

func NewProperty(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("properties: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Host.ID) == "" {
		return nil, ErrHostRequired
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	if params.NightlyRateCents < 0 {
		return nil, ErrNightlyRate
	}
	if params.Rating < 0 || params.Rating > 10 {
		return nil, ErrRatingRange
	}
	if params.Bedrooms < 0 {
		return nil, ErrBedroomsRange
	}
	if params.Bathrooms < 0 {
		return nil, ErrBathroomsRange
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}
	now := params.Now.UTC()
	p := &Property{
		ID:               params.ID,
		Title:            strings.TrimSpace(params.Title),
		Description:      strings.TrimSpace(params.Description),
		Location:         strings.TrimSpace(params.Location),
		Images:           append([]string(nil), params.Images...),
		NightlyRateCents: params.NightlyRateCents,
		Currency:         currency,
		Rating:           params.Rating,
		ReviewCount:      params.ReviewCount,
		Amenities:        append([]string(nil), params.Amenities...),
		Bedrooms:         params.Bedrooms,
		Bathrooms:        params.Bathrooms,
		MaxGuests:        params.MaxGuests,
		Featured:         params.Featured,
		Host:             params.Host,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	p.Record(PropertyCreated{PropertyID: p.ID, HostID: p.Host.ID, At: now})
	return p, nil
}

type UpdateParams struct {
	Title            string
	Description      string
	Location         string
	Images           []string
	NightlyRateCents int64
	Amenities        []string
	Bedrooms         int
	Bathrooms        int
	MaxGuests        int
	Featured         bool
	Now              time.Time
}

func (p *Property) Update(params UpdateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	if params.MaxGuests < 1 {
		return ErrGuestsLimit
	}
	if params.NightlyRateCents < 0 {
		return ErrNightlyRate
	}
	if params.Bedrooms < 0 {
		return ErrBedroomsRange
	}
	if params.Bathrooms < 0 {
		return ErrBathroomsRange
	}
	p.Title = strings.TrimSpace(params.Title)
	p.Description = strings.TrimSpace(params.Description)
	p.Location = strings.TrimSpace(params.Location)
	p.Images = append([]string(nil), params.Images...)
	p.NightlyRateCents = params.NightlyRateCents
	p.Amenities = append([]string(nil), params.Amenities...)
	p.Bedrooms = params.Bedrooms
	p.Bathrooms = params.Bathrooms
	p.MaxGuests = params.MaxGuests
	p.Featured = params.Featured
	p.UpdatedAt = params.Now.UTC()
	p.Record(PropertyUpdated{PropertyID: p.ID, At: p.UpdatedAt})
	return nil
}

// Repository is the property store port. ByID returns ErrNotFound when the
// id is unknown; callers must not swallow it.
type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id PropertyID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}
