package booking

import (
	"context"
	"errors"
	"time"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/middleware"
	"stayfinder/internal/app/outbox"
	"stayfinder/internal/app/policies"
	"stayfinder/internal/app/uow"
	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
)

const placeBookingKey = "booking.place"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type PlaceBookingCommand struct {
	CommandID       string
	PropertyID      string
	GuestID         string
	CheckIn         calendar.Date
	CheckOut        calendar.Date
	Guests          int
	Contact         domainbooking.Contact
	PaymentMethod   string
	IdempotencyKeyV string
}

func (c PlaceBookingCommand) Key() string { return placeBookingKey }

func (c PlaceBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c PlaceBookingCommand) ResultPrototype() any { return &PlaceBookingResult{} }

type PlaceBookingResult struct {
	BookingID      string `json:"booking_id"`
	PaymentReceipt string `json:"payment_receipt"`
	TotalCents     int64  `json:"total_cents"`
	Currency       string `json:"currency"`
}

// PlaceBookingHandler runs the checkout: resolve the property, re-validate
// the picked range against availability, build the intent, charge the
// payment collaborator, then persist the booking and take the booked nights
// off the calendar.
type PlaceBookingHandler struct {
	UoWFactory uow.Factory
	Payments   policies.PaymentsPort
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	FeeCents   int64
	Clock      func() time.Time
}

func (h *PlaceBookingHandler) Handle(ctx context.Context, cmd PlaceBookingCommand) (*PlaceBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	avail, err := unit.Availability().ForProperty(ctx, cmd.PropertyID)
	if err != nil {
		return nil, err
	}

	// The guest's two picks are replayed through the selector so server-side
	// acceptance matches what the calendar UI allows.
	selector := domainbooking.NewRangeSelector(avail)
	selector.Pick(cmd.CheckIn)
	selector.Pick(cmd.CheckOut)
	dr, complete := selector.Range()
	if !complete {
		return nil, domainavailability.ErrRangeUnavailable
	}

	intent, err := domainbooking.BuildIntent(domainbooking.IntentParams{
		PropertyID: property.ID,
		Range:      dr,
		Guests:     cmd.Guests,
		MaxGuests:  property.MaxGuests,
		Contact:    cmd.Contact,
		Nightly:    property.NightlyRate(),
		FeeCents:   h.FeeCents,
	})
	if err != nil {
		return nil, err
	}

	receipt, err := h.Payments.Charge(ctx, policies.ChargeRequest{
		BookingID:  cmd.CommandID,
		PropertyID: string(property.ID),
		GuestEmail: intent.Contact.Email,
		Amount:     intent.Quote.Total,
		Method:     cmd.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	now := h.now()
	record, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(cmd.CommandID),
		GuestID:        cmd.GuestID,
		Intent:         intent,
		PaymentReceipt: receipt,
		Now:            now,
	})
	if err != nil {
		return nil, err
	}
	if err := avail.Reserve(dr, string(record.ID), now); err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, record); err != nil {
		return nil, err
	}
	if err := unit.Availability().Save(ctx, avail); err != nil {
		return nil, err
	}

	pending := append(record.PendingEvents(), avail.PendingEvents()...)
	record.ClearEvents()
	avail.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &PlaceBookingResult{
		BookingID:      string(record.ID),
		PaymentReceipt: receipt,
		TotalCents:     record.Quote.Total.Amount,
		Currency:       record.Quote.Total.Currency,
	}, nil
}

func (h *PlaceBookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func (h *PlaceBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[PlaceBookingCommand, *PlaceBookingResult] = (*PlaceBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*PlaceBookingCommand)(nil)
