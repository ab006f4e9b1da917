package booking

import (
	"fmt"
	"sort"
	"strings"

	"stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/money"
)

// Contact is the guest contact block on the checkout form.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// BookingIntent is the assembled reservation request handed to the payment
// collaborator. Build a new one to change anything; it is never mutated.
type BookingIntent struct {
	PropertyID properties.PropertyID
	Range      daterange.DateRange
	Guests     int
	Contact    Contact
	Quote      Quote
}

// ValidationError lists every field that failed, so a form can show all
// problems at once instead of one per submit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("booking: invalid fields: %s", strings.Join(names, ", "))
}

// Has reports whether the named field is among the failures.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

type IntentParams struct {
	PropertyID properties.PropertyID
	Range      daterange.DateRange
	Guests     int
	MaxGuests  int
	Contact    Contact
	Nightly    money.Money
	FeeCents   int64
}

// BuildIntent validates the checkout form and returns an immutable intent
// with a freshly computed quote. On failure the returned error is a
// *ValidationError covering every offending field.
func BuildIntent(params IntentParams) (*BookingIntent, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if params.Guests < 1 {
		verr.add("guests", "at least one guest is required")
	} else if params.MaxGuests > 0 && params.Guests > params.MaxGuests {
		verr.add("guests", fmt.Sprintf("property sleeps at most %d", params.MaxGuests))
	}
	if strings.TrimSpace(params.Contact.FirstName) == "" {
		verr.add("firstName", "first name is required")
	}
	if strings.TrimSpace(params.Contact.LastName) == "" {
		verr.add("lastName", "last name is required")
	}
	email := strings.TrimSpace(params.Contact.Email)
	if email == "" {
		verr.add("email", "email is required")
	} else if !validEmail(email) {
		verr.add("email", "email must look like local@domain")
	}
	if strings.TrimSpace(params.Contact.Phone) == "" {
		verr.add("phone", "phone is required")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	quote, err := ComputeQuote(params.Range, params.Nightly, params.FeeCents)
	if err != nil {
		return nil, err
	}
	return &BookingIntent{
		PropertyID: params.PropertyID,
		Range:      params.Range,
		Guests:     params.Guests,
		Contact: Contact{
			FirstName: strings.TrimSpace(params.Contact.FirstName),
			LastName:  strings.TrimSpace(params.Contact.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(params.Contact.Phone),
		},
		Quote: quote,
	}, nil
}

// validEmail checks the basic local@domain shape; full RFC parsing belongs to
// the mail collaborator, not a checkout form.
func validEmail(value string) bool {
	at := strings.IndexRune(value, '@')
	if at <= 0 || at == len(value)-1 {
		return false
	}
	if strings.ContainsRune(value[at+1:], '@') {
		return false
	}
	return !strings.ContainsAny(value, " \t")
}
