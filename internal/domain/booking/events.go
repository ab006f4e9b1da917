package booking

import (
	"time"

	"stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
)

type BookingConfirmed struct {
	BookingID  BookingID
	PropertyID properties.PropertyID
	GuestID    string
	Range      daterange.DateRange
	Total      money.Money
	At         time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	Reason    string
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
