package properties_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "stayfinder/internal/app/handlers/properties"
	domainavailability "stayfinder/internal/domain/availability"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/daterange"
)

func TestGetProperty(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.GetPropertyHandler{UoWFactory: f.factory}

	detail, err := handler.Handle(context.Background(), handlers.GetPropertyQuery{PropertyID: "1"})
	require.NoError(t, err)

	assert.Equal(t, "1", detail.ID)
	assert.Equal(t, "The Perfect Family Get Away!", detail.Title)
	assert.Equal(t, []string{"2023-04-25", "2023-04-26", "2023-04-27"}, detail.Calendar.BookableDates)
}

func TestGetPropertyNotFound(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.GetPropertyHandler{UoWFactory: f.factory}

	_, err := handler.Handle(context.Background(), handlers.GetPropertyQuery{PropertyID: "missing"})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}

func TestQuotePreview(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.QuotePreviewHandler{UoWFactory: f.factory, FeeCents: 2500}

	quote, err := handler.Handle(context.Background(), handlers.QuotePreviewQuery{
		PropertyID: "1",
		CheckIn:    day(25),
		CheckOut:   day(27),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, int64(67100), quote.Nightly.Amount)
	assert.Equal(t, int64(2500), quote.Fees.Amount)
	assert.Equal(t, int64(2*67100+2500), quote.Total.Amount)
	assert.Equal(t, "USD", quote.Total.Currency)
}

func TestQuotePreviewUnavailableRange(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.QuotePreviewHandler{UoWFactory: f.factory}

	// Property 2 has a gap on the 26th.
	_, err := handler.Handle(context.Background(), handlers.QuotePreviewQuery{
		PropertyID: "2",
		CheckIn:    day(25),
		CheckOut:   day(27),
	})
	assert.ErrorIs(t, err, domainavailability.ErrRangeUnavailable)
}

func TestQuotePreviewBadRange(t *testing.T) {
	f := newCatalogFixture(t, defaultSeeds())
	handler := &handlers.QuotePreviewHandler{UoWFactory: f.factory}

	_, err := handler.Handle(context.Background(), handlers.QuotePreviewQuery{
		PropertyID: "1",
		CheckIn:    day(27),
		CheckOut:   day(25),
	})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}
