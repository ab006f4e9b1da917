package uow

import (
	"context"

	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	domainuser "stayfinder/internal/domain/user"
)

// UnitOfWork groups the repositories touched inside one transaction
// boundary.
type UnitOfWork interface {
	Properties() domainproperties.Repository
	Availability() domainavailability.Repository
	Bookings() domainbooking.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory starts unit of work instances.
type Factory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
