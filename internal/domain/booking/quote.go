package booking

import (
	"errors"

	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
)

// ErrInvalidRange signals a quote over a range with fewer than one night.
// A correctly integrated selector cannot hand over such a range, so hitting
// this is a defect, not user input to report back.
var ErrInvalidRange = errors.New("booking: range must cover at least one night")

// Quote is the computed price for a validated stay. It is derived data:
// recompute it whenever the range or rate changes, never patch it in place.
type Quote struct {
	Nights  int
	Nightly money.Money
	Fees    money.Money
	Total   money.Money
}

// ComputeQuote prices a stay: nights × nightly rate plus flat fees. The
// check-out day is never charged. Negative fees are clamped to zero; fee
// currency follows the rate.
func ComputeQuote(dr daterange.DateRange, nightly money.Money, feeCents int64) (Quote, error) {
	nights := dr.Nights()
	if nights < 1 {
		return Quote{}, ErrInvalidRange
	}
	if nightly.Amount < 0 {
		return Quote{}, money.ErrNegativeAmount
	}
	if feeCents < 0 {
		feeCents = 0
	}
	fees := money.Money{Amount: feeCents, Currency: nightly.Currency}
	total, err := nightly.Multiply(int64(nights)).Add(fees)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Nights:  nights,
		Nightly: nightly,
		Fees:    fees,
		Total:   total,
	}, nil
}
