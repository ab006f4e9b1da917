package properties_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
)

func TestNormalized(t *testing.T) {
	params := properties.SearchParams{
		Location: "  Lake TAHOE ",
		CheckIn:  calendar.New(2023, time.April, 27),
		CheckOut: calendar.New(2023, time.April, 25),
		Guests:   -2,
		Limit:    0,
		Offset:   -5,
	}

	norm := params.Normalized()
	assert.Equal(t, "lake tahoe", norm.Location)
	assert.True(t, norm.CheckOut.IsZero(), "inverted date window is dropped")
	assert.False(t, norm.CheckIn.IsZero())
	assert.Equal(t, 0, norm.Guests)
	assert.Equal(t, 24, norm.Limit)
	assert.Equal(t, 0, norm.Offset)
}

func TestNormalizedClampsLimit(t *testing.T) {
	norm := properties.SearchParams{Limit: 500}.Normalized()
	assert.Equal(t, 60, norm.Limit)
}

func TestMatches(t *testing.T) {
	property := &properties.Property{
		Location:  "Truckee, CA",
		MaxGuests: 6,
		Featured:  false,
	}

	assert.True(t, properties.SearchParams{}.Matches(property))
	assert.True(t, properties.SearchParams{Location: "truckee"}.Matches(property))
	assert.False(t, properties.SearchParams{Location: "elysian"}.Matches(property))
	assert.True(t, properties.SearchParams{Guests: 6}.Matches(property))
	assert.False(t, properties.SearchParams{Guests: 7}.Matches(property))
	assert.False(t, properties.SearchParams{FeaturedOnly: true}.Matches(property))
	assert.False(t, properties.SearchParams{}.Matches(nil))
}
