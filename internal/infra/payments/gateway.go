package payments

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"stayfinder/internal/app/policies"
)

// SimulatedGateway stands in for the real payment provider in dev and test
// environments. Outcomes are keyed off the tokenized method so flows are
// reproducible: "tok_declined" is refused, "tok_unavailable" simulates a
// gateway outage, anything else is charged.
type SimulatedGateway struct {
	Logger *slog.Logger
}

func (g SimulatedGateway) Charge(ctx context.Context, req policies.ChargeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	method := strings.TrimSpace(strings.ToLower(req.Method))
	switch method {
	case "tok_declined":
		return "", &policies.PaymentDeclined{Code: "card_declined", Reason: "the card was declined"}
	case "tok_insufficient":
		return "", &policies.PaymentDeclined{Code: "insufficient_funds", Reason: "insufficient funds"}
	case "tok_unavailable":
		return "", policies.ErrPaymentUnavailable
	}
	receipt := "rcpt_" + uuid.NewString()
	if g.Logger != nil {
		g.Logger.Info("payment captured",
			"booking_id", req.BookingID,
			"amount", req.Amount.Amount,
			"currency", req.Amount.Currency,
			"receipt", receipt,
		)
	}
	return receipt, nil
}

var _ policies.PaymentsPort = SimulatedGateway{}
