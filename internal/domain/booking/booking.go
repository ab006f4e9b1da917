package booking

import (
	"context"
	"errors"
	"time"

	"stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/events"
)

var (
	ErrNotFound        = errors.New("booking: not found")
	ErrGuestRequired   = errors.New("booking: guest id required")
	ErrReceiptRequired = errors.New("booking: payment receipt required")
	ErrInvalidState    = errors.New("booking: invalid state transition")
)

type BookingID string

type BookingState string

const (
	StateConfirmed BookingState = "CONFIRMED"
	StateCancelled BookingState = "CANCELLED"
)

// Booking is the persisted reservation record. It exists only after the
// payment collaborator accepted the intent; there is no pending state in
// this flow.
type Booking struct {
	ID             BookingID
	PropertyID     properties.PropertyID
	GuestID        string
	Range          daterange.DateRange
	Guests         int
	Contact        Contact
	Quote          Quote
	PaymentReceipt string
	State          BookingState
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type CreateParams struct {
	ID             BookingID
	GuestID        string
	Intent         *BookingIntent
	PaymentReceipt string
	Now            time.Time
}

// NewBooking turns a paid intent into the stored record.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.Intent == nil {
		return nil, errors.New("booking: intent required")
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.PaymentReceipt == "" {
		return nil, ErrReceiptRequired
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:             params.ID,
		PropertyID:     params.Intent.PropertyID,
		GuestID:        params.GuestID,
		Range:          params.Intent.Range,
		Guests:         params.Intent.Guests,
		Contact:        params.Intent.Contact,
		Quote:          params.Intent.Quote,
		PaymentReceipt: params.PaymentReceipt,
		State:          StateConfirmed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.Record(BookingConfirmed{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		GuestID:    b.GuestID,
		Range:      b.Range,
		Total:      b.Quote.Total,
		At:         now,
	})
	return b, nil
}

func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

type ListParams struct {
	Limit  int
	Offset int
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	List(ctx context.Context, params ListParams) ([]*Booking, int, error)
}
