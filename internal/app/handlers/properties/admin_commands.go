package properties

import (
	"context"
	"time"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/outbox"
	"stayfinder/internal/app/uow"
	domainavailability "stayfinder/internal/domain/availability"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
)

const (
	createPropertyKey = "properties.create"
	updatePropertyKey = "properties.update"
	deletePropertyKey = "properties.delete"
)

// PropertyInput is the admin form payload shared by create and update.
type PropertyInput struct {
	Title            string
	Description      string
	Location         string
	Images           []string
	NightlyRateCents int64
	Currency         string
	Amenities        []string
	Bedrooms         int
	Bathrooms        int
	MaxGuests        int
	Featured         bool
	BookableDates    []calendar.Date
}

type CreatePropertyCommand struct {
	CommandID string
	Input     PropertyInput
	Host      domainproperties.Host
}

func (c CreatePropertyCommand) Key() string { return createPropertyKey }

type CreatePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type CreatePropertyHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *CreatePropertyHandler) Handle(ctx context.Context, cmd CreatePropertyCommand) (*CreatePropertyResult, error) {
	scope, err := beginWrite(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	unit := scope.unit
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	defer scope.close(ctx)

	now := clockNow(h.Clock)
	property, err := domainproperties.NewProperty(domainproperties.CreateParams{
		ID:               domainproperties.PropertyID(cmd.CommandID),
		Title:            cmd.Input.Title,
		Description:      cmd.Input.Description,
		Location:         cmd.Input.Location,
		Images:           cmd.Input.Images,
		NightlyRateCents: cmd.Input.NightlyRateCents,
		Currency:         cmd.Input.Currency,
		Amenities:        cmd.Input.Amenities,
		Bedrooms:         cmd.Input.Bedrooms,
		Bathrooms:        cmd.Input.Bathrooms,
		MaxGuests:        cmd.Input.MaxGuests,
		Featured:         cmd.Input.Featured,
		Host:             cmd.Host,
		Now:              now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, property); err != nil {
		return nil, err
	}

	avail := domainavailability.NewMap(string(property.ID))
	for _, d := range cmd.Input.BookableDates {
		avail.SetBookable(d, true)
	}
	if err := unit.Availability().Save(ctx, avail); err != nil {
		return nil, err
	}

	pending := property.PendingEvents()
	property.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := scope.commit(ctx); err != nil {
		return nil, err
	}
	return &CreatePropertyResult{PropertyID: string(property.ID)}, nil
}

type UpdatePropertyCommand struct {
	PropertyID string
	Input      PropertyInput
}

func (c UpdatePropertyCommand) Key() string { return updatePropertyKey }

type UpdatePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type UpdatePropertyHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *UpdatePropertyHandler) Handle(ctx context.Context, cmd UpdatePropertyCommand) (*UpdatePropertyResult, error) {
	scope, err := beginWrite(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	unit := scope.unit
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	defer scope.close(ctx)

	property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	now := clockNow(h.Clock)
	if err := property.Update(domainproperties.UpdateParams{
		Title:            cmd.Input.Title,
		Description:      cmd.Input.Description,
		Location:         cmd.Input.Location,
		Images:           cmd.Input.Images,
		NightlyRateCents: cmd.Input.NightlyRateCents,
		Amenities:        cmd.Input.Amenities,
		Bedrooms:         cmd.Input.Bedrooms,
		Bathrooms:        cmd.Input.Bathrooms,
		MaxGuests:        cmd.Input.MaxGuests,
		Featured:         cmd.Input.Featured,
		Now:              now,
	}); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, property); err != nil {
		return nil, err
	}

	if len(cmd.Input.BookableDates) > 0 {
		avail := domainavailability.NewMap(cmd.PropertyID)
		for _, d := range cmd.Input.BookableDates {
			avail.SetBookable(d, true)
		}
		if err := unit.Availability().Save(ctx, avail); err != nil {
			return nil, err
		}
	}

	pending := property.PendingEvents()
	property.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	if err := scope.commit(ctx); err != nil {
		return nil, err
	}
	return &UpdatePropertyResult{PropertyID: cmd.PropertyID}, nil
}

type DeletePropertyCommand struct {
	PropertyID string
}

func (c DeletePropertyCommand) Key() string { return deletePropertyKey }

type DeletePropertyResult struct {
	PropertyID string `json:"property_id"`
}

type DeletePropertyHandler struct {
	UoWFactory uow.Factory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *DeletePropertyHandler) Handle(ctx context.Context, cmd DeletePropertyCommand) (*DeletePropertyResult, error) {
	scope, err := beginWrite(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	unit := scope.unit
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	defer scope.close(ctx)

	// Resolve first so an unknown id surfaces as not-found, not as a silent
	// no-op delete.
	property, err := unit.Properties().ByID(ctx, domainproperties.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if err := unit.Properties().Delete(ctx, property.ID); err != nil {
		return nil, err
	}

	deleted := domainproperties.PropertyDeleted{PropertyID: property.ID, At: clockNow(h.Clock)}
	if h.Outbox != nil {
		encoder := h.Encoder
		if encoder == nil {
			encoder = outbox.JSONEventEncoder{}
		}
		rec, err := encoder.Encode(deleted)
		if err != nil {
			return nil, err
		}
		if err := h.Outbox.Add(ctx, rec); err != nil {
			return nil, err
		}
	}
	if err := scope.commit(ctx); err != nil {
		return nil, err
	}
	return &DeletePropertyResult{PropertyID: cmd.PropertyID}, nil
}

// writeScope reuses a unit of work from context (the transaction middleware
// path) or opens one the handler manages itself.
type writeScope struct {
	unit      uow.UnitOfWork
	managed   bool
	committed bool
}

func beginWrite(ctx context.Context, factory uow.Factory) (*writeScope, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return &writeScope{unit: unit}, nil
	}
	if factory == nil {
		return nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &writeScope{unit: unit, managed: true}, nil
}

func (s *writeScope) close(ctx context.Context) {
	if s.managed && !s.committed {
		_ = s.unit.Rollback(ctx)
	}
}

// commit is a no-op when the middleware owns the transaction.
func (s *writeScope) commit(ctx context.Context) error {
	if !s.managed {
		return nil
	}
	if err := s.unit.Commit(ctx); err != nil {
		return err
	}
	s.committed = true
	return nil
}

func clockNow(clock func() time.Time) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreatePropertyCommand, *CreatePropertyResult] = (*CreatePropertyHandler)(nil)
var _ commands.Handler[UpdatePropertyCommand, *UpdatePropertyResult] = (*UpdatePropertyHandler)(nil)
var _ commands.Handler[DeletePropertyCommand, *DeletePropertyResult] = (*DeletePropertyHandler)(nil)
