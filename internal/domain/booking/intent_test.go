package booking_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
)

func validIntentParams(t *testing.T) booking.IntentParams {
	t.Helper()
	return booking.IntentParams{
		PropertyID: "prop-1",
		Range:      mustStay(t, 25, 27),
		Guests:     2,
		MaxGuests:  10,
		Contact: booking.Contact{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.com",
			Phone:     "555-0100",
		},
		Nightly:  money.Must(10000, "USD"),
		FeeCents: 2500,
	}
}

func TestBuildIntent(t *testing.T) {
	intent, err := booking.BuildIntent(validIntentParams(t))
	require.NoError(t, err)

	assert.Equal(t, 2, intent.Guests)
	assert.Equal(t, 2, intent.Quote.Nights)
	assert.Equal(t, money.Must(22500, "USD"), intent.Quote.Total)
}

func TestBuildIntentTrimsContact(t *testing.T) {
	params := validIntentParams(t)
	params.Contact = booking.Contact{
		FirstName: "  John ",
		LastName:  " Doe  ",
		Email:     "  john@example.com ",
		Phone:     " 555-0100 ",
	}

	intent, err := booking.BuildIntent(params)
	require.NoError(t, err)
	assert.Equal(t, booking.Contact{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Phone:     "555-0100",
	}, intent.Contact)
}

func TestBuildIntentCollectsEveryBadField(t *testing.T) {
	params := validIntentParams(t)
	params.Guests = 0
	params.Contact = booking.Contact{Email: "not-an-email"}

	_, err := booking.BuildIntent(params)
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)

	for _, field := range []string{"guests", "firstName", "lastName", "email", "phone"} {
		assert.True(t, verr.Has(field), "missing field %q", field)
	}
	assert.Len(t, verr.Fields, 5)
	assert.Equal(t, "booking: invalid fields: email, firstName, guests, lastName, phone", verr.Error())
}

func TestBuildIntentGuestBounds(t *testing.T) {
	cases := []struct {
		name   string
		guests int
		max    int
		ok     bool
	}{
		{"zero guests", 0, 10, false},
		{"one guest", 1, 10, true},
		{"at capacity", 10, 10, true},
		{"over capacity", 11, 10, false},
		{"no capacity limit", 50, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validIntentParams(t)
			params.Guests = tc.guests
			params.MaxGuests = tc.max

			_, err := booking.BuildIntent(params)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var verr *booking.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has("guests"))
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestBuildIntentEmailShapes(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"john@example.com", true},
		{"a@b", true},
		{"@example.com", false},
		{"john@", false},
		{"john@@example.com", false},
		{"a@b@c", false},
		{"john doe@example.com", false},
		{"john\t@example.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			params := validIntentParams(t)
			params.Contact.Email = tc.email

			_, err := booking.BuildIntent(params)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var verr *booking.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has("email"))
		})
	}
}

func TestBuildIntentWhitespaceOnlyContactFields(t *testing.T) {
	params := validIntentParams(t)
	params.Contact.FirstName = "   "
	params.Contact.Phone = "\t"

	_, err := booking.BuildIntent(params)
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("firstName"))
	assert.True(t, verr.Has("phone"))
	assert.Len(t, verr.Fields, 2)
}

func TestBuildIntentRejectsBadRangeBeforeFields(t *testing.T) {
	params := validIntentParams(t)
	params.Range = daterange.DateRange{CheckIn: day(27), CheckOut: day(25)}
	params.Contact = booking.Contact{}

	_, err := booking.BuildIntent(params)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	var verr *booking.ValidationError
	assert.False(t, errors.As(err, &verr), "range problems are not form field errors")
}
