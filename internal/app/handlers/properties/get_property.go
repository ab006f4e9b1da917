package properties

import (
	"context"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainproperties "stayfinder/internal/domain/properties"
)

const getPropertyKey = "properties.get"

type GetPropertyQuery struct {
	PropertyID string
}

func (q GetPropertyQuery) Key() string { return getPropertyKey }

// GetPropertyHandler serves the detail page: the full property plus a
// snapshot of its availability calendar. An unknown id propagates
// properties.ErrNotFound to the caller.
type GetPropertyHandler struct {
	UoWFactory uow.Factory
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.PropertyDetail, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.PropertyDetail{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.PropertyDetail{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(q.PropertyID))
	if err != nil {
		return dto.PropertyDetail{}, err
	}
	avail, err := unit.Availability().ForProperty(ctx, q.PropertyID)
	if err != nil {
		return dto.PropertyDetail{}, err
	}
	return dto.MapPropertyDetail(property, avail.Snapshot()), nil
}

var _ queries.Handler[GetPropertyQuery, dto.PropertyDetail] = (*GetPropertyHandler)(nil)
