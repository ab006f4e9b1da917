package properties_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "stayfinder/internal/app/handlers/properties"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
)

func TestCreateProperty(t *testing.T) {
	f := newCatalogFixture(t, nil)
	handler := &handlers.CreatePropertyHandler{UoWFactory: f.factory}
	ctx := context.Background()

	result, err := handler.Handle(ctx, handlers.CreatePropertyCommand{
		CommandID: "new-prop",
		Input: handlers.PropertyInput{
			Title:            "Mountain Cabin",
			Location:         "Truckee, CA",
			NightlyRateCents: 38800,
			MaxGuests:        6,
			Bedrooms:         2,
			Bathrooms:        2,
			BookableDates:    []calendar.Date{day(25), day(26)},
		},
		Host: domainproperties.Host{ID: "host-1", Name: "Michael Brown"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-prop", result.PropertyID)

	getter := &handlers.GetPropertyHandler{UoWFactory: f.factory}
	detail, err := getter.Handle(ctx, handlers.GetPropertyQuery{PropertyID: "new-prop"})
	require.NoError(t, err)
	assert.Equal(t, "Mountain Cabin", detail.Title)
	assert.Equal(t, []string{"2023-04-25", "2023-04-26"}, detail.Calendar.BookableDates)
}

func TestCreatePropertyValidation(t *testing.T) {
	f := newCatalogFixture(t, nil)
	handler := &handlers.CreatePropertyHandler{UoWFactory: f.factory}

	_, err := handler.Handle(context.Background(), handlers.CreatePropertyCommand{
		CommandID: "new-prop",
		Input:     handlers.PropertyInput{Title: "", MaxGuests: 4},
		Host:      domainproperties.Host{ID: "host-1"},
	})
	assert.ErrorIs(t, err, domainproperties.ErrTitleRequired)

	_, err = handler.Handle(context.Background(), handlers.CreatePropertyCommand{
		CommandID: "new-prop",
		Input:     handlers.PropertyInput{Title: "Cabin", MaxGuests: 0},
		Host:      domainproperties.Host{ID: "host-1"},
	})
	assert.ErrorIs(t, err, domainproperties.ErrGuestsLimit)
}

func TestUpdateProperty(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.UpdatePropertyHandler{UoWFactory: f.factory}
	ctx := context.Background()

	_, err := handler.Handle(ctx, handlers.UpdatePropertyCommand{
		PropertyID: "1",
		Input: handlers.PropertyInput{
			Title:            "Renamed Listing",
			Location:         "Elysian, MN",
			NightlyRateCents: 70000,
			MaxGuests:        12,
			BookableDates:    []calendar.Date{day(28)},
		},
	})
	require.NoError(t, err)

	getter := &handlers.GetPropertyHandler{UoWFactory: f.factory}
	detail, err := getter.Handle(ctx, handlers.GetPropertyQuery{PropertyID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Listing", detail.Title)
	assert.Equal(t, int64(70000), detail.NightlyRateCents)
	assert.Equal(t, 12, detail.MaxGuests)
	assert.Equal(t, []string{"2023-04-28"}, detail.Calendar.BookableDates, "calendar replaced wholesale")
}

func TestUpdatePropertyKeepsCalendarWhenNoDatesGiven(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.UpdatePropertyHandler{UoWFactory: f.factory}
	ctx := context.Background()

	_, err := handler.Handle(ctx, handlers.UpdatePropertyCommand{
		PropertyID: "1",
		Input: handlers.PropertyInput{
			Title:            "Renamed Listing",
			NightlyRateCents: 67100,
			MaxGuests:        10,
		},
	})
	require.NoError(t, err)

	getter := &handlers.GetPropertyHandler{UoWFactory: f.factory}
	detail, err := getter.Handle(ctx, handlers.GetPropertyQuery{PropertyID: "1"})
	require.NoError(t, err)
	assert.Len(t, detail.Calendar.BookableDates, 3)
}

func TestUpdatePropertyNotFound(t *testing.T) {
	f := newCatalogFixture(t, nil)
	handler := &handlers.UpdatePropertyHandler{UoWFactory: f.factory}

	_, err := handler.Handle(context.Background(), handlers.UpdatePropertyCommand{
		PropertyID: "missing",
		Input:      handlers.PropertyInput{Title: "x", MaxGuests: 2},
	})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}

func TestDeleteProperty(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.DeletePropertyHandler{UoWFactory: f.factory}
	ctx := context.Background()

	_, err := handler.Handle(ctx, handlers.DeletePropertyCommand{PropertyID: "1"})
	require.NoError(t, err)

	getter := &handlers.GetPropertyHandler{UoWFactory: f.factory}
	_, err = getter.Handle(ctx, handlers.GetPropertyQuery{PropertyID: "1"})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)

	_, err = handler.Handle(ctx, handlers.DeletePropertyCommand{PropertyID: "1"})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}
