package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "stayfinder/internal/app/handlers/booking"
	"stayfinder/internal/app/policies"
	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/infra/storage/memory"
)

type stubPayments struct {
	receipt string
	err     error
	charges []policies.ChargeRequest
}

func (s *stubPayments) Charge(ctx context.Context, req policies.ChargeRequest) (string, error) {
	s.charges = append(s.charges, req)
	if s.err != nil {
		return "", s.err
	}
	return s.receipt, nil
}

type bookingFixture struct {
	handler    *handlers.PlaceBookingHandler
	payments   *stubPayments
	bookings   *memory.BookingRepository
	avail      *memory.AvailabilityRepository
	outbox     *memory.Outbox
	propertyID string
}

func day(d int) calendar.Date {
	return calendar.New(2023, time.April, d)
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	properties := memory.NewPropertyRepository()
	avail := memory.NewAvailabilityRepository()
	bookings := memory.NewBookingRepository()
	users := memory.NewUserRepository()
	box := memory.NewOutbox()

	ctx := context.Background()
	property, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:               "prop-1",
		Title:            "The Perfect Family Get Away!",
		Location:         "Elysian, MN",
		NightlyRateCents: 10000,
		MaxGuests:        10,
		Host:             domainproperties.Host{ID: "host-1", Name: "John Smith"},
		Now:              time.Now(),
	})
	require.NoError(t, err)
	property.ClearEvents()
	require.NoError(t, properties.Save(ctx, property))

	cal, err := avail.ForProperty(ctx, "prop-1")
	require.NoError(t, err)
	for _, d := range []calendar.Date{day(25), day(26), day(27)} {
		cal.SetBookable(d, true)
	}
	require.NoError(t, avail.Save(ctx, cal))

	payments := &stubPayments{receipt: "rcpt_ok"}
	handler := &handlers.PlaceBookingHandler{
		UoWFactory: memory.Factory{
			PropertiesRepo:   properties,
			AvailabilityRepo: avail,
			BookingsRepo:     bookings,
			UsersRepo:        users,
		},
		Payments: payments,
		Outbox:   box,
		FeeCents: 2500,
		Clock:    func() time.Time { return time.Date(2023, time.April, 20, 12, 0, 0, 0, time.UTC) },
	}
	return &bookingFixture{
		handler:    handler,
		payments:   payments,
		bookings:   bookings,
		avail:      avail,
		outbox:     box,
		propertyID: "prop-1",
	}
}

func validCommand() handlers.PlaceBookingCommand {
	return handlers.PlaceBookingCommand{
		CommandID:  "cmd-1",
		PropertyID: "prop-1",
		GuestID:    "guest-1",
		CheckIn:    day(25),
		CheckOut:   day(27),
		Guests:     2,
		Contact: domainbooking.Contact{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@example.com",
			Phone:     "555-0100",
		},
		PaymentMethod: "tok_visa",
	}
}

func TestPlaceBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	result, err := f.handler.Handle(ctx, validCommand())
	require.NoError(t, err)
	assert.Equal(t, "cmd-1", result.BookingID)
	assert.Equal(t, "rcpt_ok", result.PaymentReceipt)
	assert.Equal(t, int64(2*10000+2500), result.TotalCents)
	assert.Equal(t, "USD", result.Currency)

	stored, err := f.bookings.ByID(ctx, "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StateConfirmed, stored.State)
	assert.Equal(t, "guest-1", stored.GuestID)
	assert.Equal(t, 2, stored.Quote.Nights)

	// The booked nights left the calendar; the check-out day did not.
	cal, err := f.avail.ForProperty(ctx, f.propertyID)
	require.NoError(t, err)
	assert.False(t, cal.IsBookable(day(25)))
	assert.False(t, cal.IsBookable(day(26)))
	assert.True(t, cal.IsBookable(day(27)))

	require.Len(t, f.payments.charges, 1)
	assert.Equal(t, int64(22500), f.payments.charges[0].Amount.Amount)
	assert.Equal(t, "john@example.com", f.payments.charges[0].GuestEmail)

	names := make([]string, 0)
	for _, rec := range f.outbox.Pending() {
		names = append(names, rec.Name)
	}
	assert.Contains(t, names, "booking.confirmed")
	assert.Contains(t, names, "availability.dates_reserved")
}

func TestPlaceBookingUnknownProperty(t *testing.T) {
	f := newBookingFixture(t)
	cmd := validCommand()
	cmd.PropertyID = "prop-missing"

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}

func TestPlaceBookingUnavailableRange(t *testing.T) {
	f := newBookingFixture(t)
	cmd := validCommand()
	cmd.CheckIn = day(24)
	cmd.CheckOut = day(27)

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domainavailability.ErrRangeUnavailable)
	assert.Empty(t, f.payments.charges, "no charge before the range is accepted")
}

func TestPlaceBookingDoubleBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, validCommand())
	require.NoError(t, err)

	second := validCommand()
	second.CommandID = "cmd-2"
	_, err = f.handler.Handle(ctx, second)
	assert.ErrorIs(t, err, domainavailability.ErrRangeUnavailable)
}

func TestPlaceBookingPaymentDeclined(t *testing.T) {
	f := newBookingFixture(t)
	f.payments.err = &policies.PaymentDeclined{Code: "card_declined", Reason: "the card was declined"}

	_, err := f.handler.Handle(context.Background(), validCommand())
	var declined *policies.PaymentDeclined
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "card_declined", declined.Code)

	// Nothing was persisted and the nights are still bookable.
	_, err = f.bookings.ByID(context.Background(), "cmd-1")
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
	cal, err := f.avail.ForProperty(context.Background(), f.propertyID)
	require.NoError(t, err)
	assert.True(t, cal.IsBookable(day(25)))
}

func TestPlaceBookingGatewayDown(t *testing.T) {
	f := newBookingFixture(t)
	f.payments.err = policies.ErrPaymentUnavailable

	_, err := f.handler.Handle(context.Background(), validCommand())
	assert.ErrorIs(t, err, policies.ErrPaymentUnavailable)
}

func TestPlaceBookingValidationFailure(t *testing.T) {
	f := newBookingFixture(t)
	cmd := validCommand()
	cmd.Guests = 11
	cmd.Contact.Email = "broken"

	_, err := f.handler.Handle(context.Background(), cmd)
	var verr *domainbooking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("guests"))
	assert.True(t, verr.Has("email"))
	assert.Empty(t, f.payments.charges)
}
