package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/dto"
	bookingapp "stayfinder/internal/app/handlers/booking"
	propertyapp "stayfinder/internal/app/handlers/properties"
	"stayfinder/internal/app/queries"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	domainuser "stayfinder/internal/domain/user"
	"stayfinder/internal/infra/storage/s3"
)

// AdminHandler backs the dashboard: user/booking overviews and the property
// catalog management endpoints.
type AdminHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Users    domainuser.Repository
	Uploader s3.Uploader
	Logger   *slog.Logger
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	principal, ok := requireRole(c, "admin")
	if !ok || principal.ID == "" {
		return
	}
	if h.Users == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user repository unavailable"})
		return
	}
	users, total, err := h.Users.List(c.Request.Context(), domainuser.ListParams{
		Limit:  parseIntWithDefault(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset")),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list users failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list users"})
		return
	}
	resp := dto.UserList{
		Items: make([]dto.UserProfile, 0, len(users)),
		Total: total,
	}
	for _, user := range users {
		resp.Items = append(resp.Items, dto.MapUserProfile(user))
	}
	c.JSON(http.StatusOK, resp)
}

func (h AdminHandler) ListBookings(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := bookingapp.ListBookingsQuery{
		Limit:  parseIntWithDefault(c.Query("limit"), 50),
		Offset: parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingList](c.Request.Context(), h.Queries, query)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list bookings failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list bookings"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type propertyRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Location         string   `json:"location"`
	Images           []string `json:"images"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	Currency         string   `json:"currency"`
	Amenities        []string `json:"amenities"`
	Bedrooms         int      `json:"bedrooms"`
	Bathrooms        int      `json:"bathrooms"`
	MaxGuests        int      `json:"max_guests"`
	Featured         bool     `json:"featured"`
	BookableDates    []string `json:"bookable_dates"`
	HostName         string   `json:"host_name"`
	HostImage        string   `json:"host_image"`
}

func (h AdminHandler) CreateProperty(c *gin.Context) {
	principal, ok := requireRole(c, "admin")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, ok := mapPropertyInput(c, req)
	if !ok {
		return
	}
	hostName := strings.TrimSpace(req.HostName)
	if hostName == "" {
		hostName = principal.Name
	}
	cmd := propertyapp.CreatePropertyCommand{
		CommandID: generateCommandID(),
		Input:     input,
		Host: domainproperties.Host{
			ID:    principal.ID,
			Name:  hostName,
			Image: req.HostImage,
		},
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *propertyapp.CreatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h AdminHandler) UpdateProperty(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req propertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, ok := mapPropertyInput(c, req)
	if !ok {
		return
	}
	cmd := propertyapp.UpdatePropertyCommand{
		PropertyID: c.Param("id"),
		Input:      input,
	}
	result, err := commands.Dispatch[propertyapp.UpdatePropertyCommand, *propertyapp.UpdatePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AdminHandler) DeleteProperty(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := propertyapp.DeletePropertyCommand{PropertyID: c.Param("id")}
	result, err := commands.Dispatch[propertyapp.DeletePropertyCommand, *propertyapp.DeletePropertyResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadImage stores a listing photo and returns its public URL.
func (h AdminHandler) UploadImage(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads unavailable"})
		return
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image form file is required"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("properties/%s%s", uuid.NewString(), strings.ToLower(path.Ext(header.Filename)))
	url, err := h.Uploader.Upload(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("image upload failed", "error", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func mapPropertyInput(c *gin.Context, req propertyRequest) (propertyapp.PropertyInput, bool) {
	dates := make([]calendar.Date, 0, len(req.BookableDates))
	for _, raw := range req.BookableDates {
		d, err := calendar.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid bookable date %q", raw)})
			return propertyapp.PropertyInput{}, false
		}
		dates = append(dates, d)
	}
	return propertyapp.PropertyInput{
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		Images:           req.Images,
		NightlyRateCents: req.NightlyRateCents,
		Currency:         req.Currency,
		Amenities:        req.Amenities,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		MaxGuests:        req.MaxGuests,
		Featured:         req.Featured,
		BookableDates:    dates,
	}, true
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case isPropertyInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondDomainError(c, err)
	}
}

func isPropertyInputError(err error) bool {
	for _, candidate := range []error{
		domainproperties.ErrTitleRequired,
		domainproperties.ErrHostRequired,
		domainproperties.ErrGuestsLimit,
		domainproperties.ErrNightlyRate,
		domainproperties.ErrRatingRange,
		domainproperties.ErrBedroomsRange,
		domainproperties.ErrBathroomsRange,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

var _ AdminHTTP = AdminHandler{}
