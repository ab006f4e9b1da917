package availability

import (
	"time"

	"stayfinder/internal/domain/shared/daterange"
)

type DatesReserved struct {
	PropertyID string
	BookingID  string
	Range      daterange.DateRange
	At         time.Time
}

func (e DatesReserved) EventName() string     { return "availability.dates_reserved" }
func (e DatesReserved) AggregateID() string   { return e.PropertyID }
func (e DatesReserved) OccurredAt() time.Time { return e.At }
