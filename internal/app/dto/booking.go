package dto

import (
	"time"

	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

type QuoteDTO struct {
	Nights  int      `json:"nights"`
	Nightly MoneyDTO `json:"nightly"`
	Fees    MoneyDTO `json:"fees"`
	Total   MoneyDTO `json:"total"`
}

func MapQuote(q domainbooking.Quote) QuoteDTO {
	return QuoteDTO{
		Nights:  q.Nights,
		Nightly: MapMoney(q.Nightly),
		Fees:    MapMoney(q.Fees),
		Total:   MapMoney(q.Total),
	}
}

type ContactDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type BookingPropertySnapshot struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Image    string `json:"image,omitempty"`
}

type BookingSummary struct {
	ID       string                  `json:"id"`
	Property BookingPropertySnapshot `json:"property"`
	GuestID  string                  `json:"guest_id,omitempty"`
	CheckIn  string                  `json:"check_in"`
	CheckOut string                  `json:"check_out"`
	Guests   int                     `json:"guests"`
	Contact  ContactDTO              `json:"contact"`
	Quote    QuoteDTO                `json:"quote"`
	Status   string                  `json:"status"`
	Created  time.Time               `json:"created_at"`
}

type BookingList struct {
	Items []BookingSummary `json:"items"`
	Total int              `json:"total"`
}

func MapBookingSummary(b *domainbooking.Booking, p *domainproperties.Property) BookingSummary {
	snapshot := BookingPropertySnapshot{ID: string(b.PropertyID)}
	if p != nil {
		snapshot.Title = p.Title
		snapshot.Location = p.Location
		if len(p.Images) > 0 {
			snapshot.Image = p.Images[0]
		}
	}
	return BookingSummary{
		ID:       string(b.ID),
		Property: snapshot,
		GuestID:  b.GuestID,
		CheckIn:  b.Range.CheckIn.String(),
		CheckOut: b.Range.CheckOut.String(),
		Guests:   b.Guests,
		Contact: ContactDTO{
			FirstName: b.Contact.FirstName,
			LastName:  b.Contact.LastName,
			Email:     b.Contact.Email,
			Phone:     b.Contact.Phone,
		},
		Quote:   MapQuote(b.Quote),
		Status:  string(b.State),
		Created: b.CreatedAt,
	}
}
