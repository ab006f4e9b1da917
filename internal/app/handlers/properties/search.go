package properties

import (
	"context"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/queries"
	"stayfinder/internal/app/uow"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
)

const searchKey = "properties.search"

// SearchQuery mirrors the public search bar. Zero-valued fields mean "no
// filter", so the same query also serves the plain catalog listing.
type SearchQuery struct {
	Location     string
	CheckIn      calendar.Date
	CheckOut     calendar.Date
	Guests       int
	FeaturedOnly bool
	Limit        int
	Offset       int
}

func (q SearchQuery) Key() string { return searchKey }

type SearchHandler struct {
	UoWFactory uow.Factory
}

func (h *SearchHandler) Handle(ctx context.Context, q SearchQuery) (dto.PropertyList, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.PropertyList{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.PropertyList{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	params := domainproperties.SearchParams{
		Location:     q.Location,
		CheckIn:      q.CheckIn,
		CheckOut:     q.CheckOut,
		Guests:       q.Guests,
		FeaturedOnly: q.FeaturedOnly,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}.Normalized()

	if params.CheckIn.IsZero() || params.CheckOut.IsZero() {
		result, err := unit.Properties().Search(ctx, params)
		if err != nil {
			return dto.PropertyList{}, err
		}
		items := make([]dto.PropertySummary, 0, len(result.Items))
		for _, property := range result.Items {
			items = append(items, dto.MapPropertySummary(property))
		}
		return dto.PropertyList{Items: items, Total: result.Total}, nil
	}
	return searchWithDates(ctx, unit, params)
}

// scanPageSize matches the largest page the repository serves.
const scanPageSize = 60

// searchWithDates walks the whole match set and keeps only properties whose
// calendar covers the requested stay. The availability filter has to run
// before limit/offset, otherwise Total and page contents shift between pages
// of the same query.
func searchWithDates(ctx context.Context, unit uow.UnitOfWork, params domainproperties.SearchParams) (dto.PropertyList, error) {
	scan := params
	scan.Offset = 0
	scan.Limit = scanPageSize

	items := make([]dto.PropertySummary, 0, params.Limit)
	total := 0
	for {
		page, err := unit.Properties().Search(ctx, scan)
		if err != nil {
			return dto.PropertyList{}, err
		}
		for _, property := range page.Items {
			avail, err := unit.Availability().ForProperty(ctx, string(property.ID))
			if err != nil {
				return dto.PropertyList{}, err
			}
			if !avail.BookableRun(params.CheckIn, params.CheckOut) {
				continue
			}
			if total >= params.Offset && len(items) < params.Limit {
				items = append(items, dto.MapPropertySummary(property))
			}
			total++
		}
		scan.Offset += len(page.Items)
		if len(page.Items) == 0 || scan.Offset >= page.Total {
			break
		}
	}
	return dto.PropertyList{Items: items, Total: total}, nil
}

var _ queries.Handler[SearchQuery, dto.PropertyList] = (*SearchHandler)(nil)
