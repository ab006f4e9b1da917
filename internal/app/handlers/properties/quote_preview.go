package properties

import (
	"context"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
)

const quotePreviewKey = "properties.quote"

// QuotePreviewQuery prices a candidate stay for the detail page, before any
// checkout form is filled in.
type QuotePreviewQuery struct {
	PropertyID string
	CheckIn    calendar.Date
	CheckOut   calendar.Date
}

func (q QuotePreviewQuery) Key() string { return quotePreviewKey }

type QuotePreviewHandler struct {
	UoWFactory uow.Factory
	FeeCents   int64
}

func (h *QuotePreviewHandler) Handle(ctx context.Context, q QuotePreviewQuery) (dto.QuoteDTO, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.QuoteDTO{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.QuoteDTO{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(q.PropertyID))
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	avail, err := unit.Availability().ForProperty(ctx, q.PropertyID)
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	dr, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	if !avail.BookableRun(dr.CheckIn, dr.CheckOut) {
		return dto.QuoteDTO{}, domainavailability.ErrRangeUnavailable
	}
	quote, err := domainbooking.ComputeQuote(dr, property.NightlyRate(), h.FeeCents)
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	return dto.MapQuote(quote), nil
}

var _ queries.Handler[QuotePreviewQuery, dto.QuoteDTO] = (*QuotePreviewHandler)(nil)
