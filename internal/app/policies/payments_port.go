package policies

import (
	"context"
	"errors"
	"fmt"

	"stayfinder/internal/domain/shared/money"
)

// PaymentDeclined is the structured failure coming back from the payment
// collaborator. Declines are surfaced to the guest with a retry affordance;
// the service itself never retries a charge.
type PaymentDeclined struct {
	Code   string
	Reason string
}

func (e *PaymentDeclined) Error() string {
	return fmt.Sprintf("payments: declined (%s): %s", e.Code, e.Reason)
}

var ErrPaymentUnavailable = errors.New("payments: gateway unavailable")

// ChargeRequest is the intent-shaped payload handed to the gateway. Method is
// the opaque tokenized payment instrument; this service never sees card data.
type ChargeRequest struct {
	BookingID  string
	PropertyID string
	GuestEmail string
	Amount     money.Money
	Method     string
}

// PaymentsPort is the external payment collaborator. A successful charge
// returns an opaque receipt token.
type PaymentsPort interface {
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}
