package booking

import (
	"context"
	"errors"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainproperties "stayfinder/internal/domain/properties"
)

const guestBookingsKey = "booking.guest_list"

type GuestBookingsQuery struct {
	GuestID string
}

func (q GuestBookingsQuery) Key() string { return guestBookingsKey }

// GuestBookingsHandler lists a guest's own bookings with property snapshots.
type GuestBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *GuestBookingsHandler) Handle(ctx context.Context, q GuestBookingsQuery) (dto.BookingList, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.BookingList{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.BookingList{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	items, err := unit.Bookings().ListByGuest(ctx, q.GuestID)
	if err != nil {
		return dto.BookingList{}, err
	}
	out := dto.BookingList{Items: make([]dto.BookingSummary, 0, len(items)), Total: len(items)}
	for _, b := range items {
		property, err := unit.Properties().ByID(ctx, b.PropertyID)
		if err != nil && !errors.Is(err, domainproperties.ErrNotFound) {
			return dto.BookingList{}, err
		}
		summary := dto.MapBookingSummary(b, property)
		summary.GuestID = "" // the caller is the guest
		out.Items = append(out.Items, summary)
	}
	return out, nil
}

var _ queries.Handler[GuestBookingsQuery, dto.BookingList] = (*GuestBookingsHandler)(nil)
