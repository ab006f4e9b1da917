package daterange

import (
	"errors"

	"stayfinder/internal/domain/shared/calendar"
)

var ErrInvalidRange = errors.New("daterange: check-out must be after check-in")

// DateRange is the half-open stay interval [CheckIn, CheckOut). The check-out
// day itself is never part of the stay.
type DateRange struct {
	CheckIn  calendar.Date
	CheckOut calendar.Date
}

func New(checkIn, checkOut calendar.Date) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the billable night count: the whole-day difference between
// check-out and check-in.
func (dr DateRange) Nights() int {
	return dr.CheckIn.DaysUntil(dr.CheckOut)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(d calendar.Date) bool {
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Days lists every date in [CheckIn, CheckOut).
func (dr DateRange) Days() []calendar.Date {
	nights := dr.Nights()
	if nights <= 0 {
		return nil
	}
	out := make([]calendar.Date, 0, nights)
	for d := dr.CheckIn; d.Before(dr.CheckOut); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
