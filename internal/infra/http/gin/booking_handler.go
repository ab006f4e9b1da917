package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayfinder/internal/app/commands"
	bookingapp "stayfinder/internal/app/handlers/booking"
	"stayfinder/internal/app/policies"
	domainbooking "stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/shared/calendar"
)

type BookingHandler struct {
	Commands commands.Bus
}

type contactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type createBookingRequest struct {
	PropertyID    string         `json:"property_id"`
	CheckIn       string         `json:"check_in"`
	CheckOut      string         `json:"check_out"`
	Guests        int            `json:"guests"`
	Contact       contactRequest `json:"contact"`
	PaymentMethod string         `json:"payment_method"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := calendar.Parse(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := calendar.Parse(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}
	cmd := bookingapp.PlaceBookingCommand{
		CommandID:  generateCommandID(),
		PropertyID: req.PropertyID,
		GuestID:    user.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
		Contact: domainbooking.Contact{
			FirstName: req.Contact.FirstName,
			LastName:  req.Contact.LastName,
			Email:     req.Contact.Email,
			Phone:     req.Contact.Phone,
		},
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.PlaceBookingCommand, *bookingapp.PlaceBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func respondBookingError(c *gin.Context, err error) {
	var declined *policies.PaymentDeclined
	switch {
	case errors.As(err, &declined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": declined.Reason, "code": declined.Code})
	case errors.Is(err, policies.ErrPaymentUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway unavailable"})
	default:
		respondDomainError(c, err)
	}
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
