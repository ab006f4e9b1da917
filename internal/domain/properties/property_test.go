package properties_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/money"
)

func validCreateParams() properties.CreateParams {
	return properties.CreateParams{
		ID:               "prop-1",
		Title:            "Lakefront Home",
		Description:      "Private dock and firepit.",
		Location:         "Chappells, SC",
		Images:           []string{"/img/1.jpg"},
		NightlyRateCents: 45000,
		Currency:         "usd",
		Rating:           9.6,
		ReviewCount:      123,
		Amenities:        []string{"Wifi", "Kitchen"},
		Bedrooms:         3,
		Bathrooms:        2,
		MaxGuests:        8,
		Featured:         true,
		Host:             properties.Host{ID: "host-1", Name: "Sarah Johnson"},
		Now:              time.Date(2023, time.April, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewProperty(t *testing.T) {
	p, err := properties.NewProperty(validCreateParams())
	require.NoError(t, err)

	assert.Equal(t, properties.PropertyID("prop-1"), p.ID)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	pending := p.PendingEvents()
	require.Len(t, pending, 1)
	created, ok := pending[0].(properties.PropertyCreated)
	require.True(t, ok)
	assert.Equal(t, p.ID, created.PropertyID)
	assert.Equal(t, "host-1", created.HostID)
}

func TestNewPropertyValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*properties.CreateParams)
		want   error
	}{
		{"blank title", func(p *properties.CreateParams) { p.Title = "  " }, properties.ErrTitleRequired},
		{"missing host", func(p *properties.CreateParams) { p.Host.ID = "" }, properties.ErrHostRequired},
		{"zero guests", func(p *properties.CreateParams) { p.MaxGuests = 0 }, properties.ErrGuestsLimit},
		{"negative rate", func(p *properties.CreateParams) { p.NightlyRateCents = -1 }, properties.ErrNightlyRate},
		{"rating too high", func(p *properties.CreateParams) { p.Rating = 10.5 }, properties.ErrRatingRange},
		{"negative rating", func(p *properties.CreateParams) { p.Rating = -0.1 }, properties.ErrRatingRange},
		{"negative bedrooms", func(p *properties.CreateParams) { p.Bedrooms = -1 }, properties.ErrBedroomsRange},
		{"negative bathrooms", func(p *properties.CreateParams) { p.Bathrooms = -2 }, properties.ErrBathroomsRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validCreateParams()
			tc.mutate(&params)
			_, err := properties.NewProperty(params)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNightlyRateDefaultsCurrency(t *testing.T) {
	p := &properties.Property{NightlyRateCents: 38800}
	assert.Equal(t, money.Must(38800, "USD"), p.NightlyRate())

	p.Currency = "EUR"
	assert.Equal(t, money.Must(38800, "EUR"), p.NightlyRate())
}

func TestUpdate(t *testing.T) {
	p, err := properties.NewProperty(validCreateParams())
	require.NoError(t, err)
	p.ClearEvents()

	later := time.Date(2023, time.April, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, p.Update(properties.UpdateParams{
		Title:            "Updated Title",
		Location:         "Truckee, CA",
		NightlyRateCents: 38800,
		MaxGuests:        6,
		Bedrooms:         2,
		Bathrooms:        2,
		Featured:         false,
		Now:              later,
	}))

	assert.Equal(t, "Updated Title", p.Title)
	assert.Equal(t, int64(38800), p.NightlyRateCents)
	assert.Equal(t, later, p.UpdatedAt)
	assert.False(t, p.Featured)

	pending := p.PendingEvents()
	require.Len(t, pending, 1)
	_, ok := pending[0].(properties.PropertyUpdated)
	assert.True(t, ok)
}

func TestUpdateValidation(t *testing.T) {
	p, err := properties.NewProperty(validCreateParams())
	require.NoError(t, err)

	assert.ErrorIs(t, p.Update(properties.UpdateParams{Title: "", MaxGuests: 4}), properties.ErrTitleRequired)
	assert.ErrorIs(t, p.Update(properties.UpdateParams{Title: "x", MaxGuests: 0}), properties.ErrGuestsLimit)
	assert.ErrorIs(t, p.Update(properties.UpdateParams{Title: "x", MaxGuests: 4, NightlyRateCents: -1}), properties.ErrNightlyRate)
}
