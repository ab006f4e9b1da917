package booking

import (
	"context"
	"errors"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
)

const listBookingsKey = "booking.admin_list"

// ListBookingsQuery backs the admin dashboard's booking table.
type ListBookingsQuery struct {
	Limit  int
	Offset int
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.Factory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.BookingList, error) {
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

	items, total, err := unit.Bookings().List(ctx, domainbooking.ListParams{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return dto.BookingList{}, err
	}
	out := dto.BookingList{Items: make([]dto.BookingSummary, 0, len(items)), Total: total}
	for _, b := range items {
		property, err := unit.Properties().ByID(ctx, b.PropertyID)
		if err != nil && !errors.Is(err, domainproperties.ErrNotFound) {
			return dto.BookingList{}, err
		}
		out.Items = append(out.Items, dto.MapBookingSummary(b, property))
	}
	return out, nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingList] = (*ListBookingsHandler)(nil)
