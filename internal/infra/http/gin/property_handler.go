package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	propertyapp "stayfinder/internal/app/handlers/properties"
	"stayfinder/internal/app/queries"
	domainavailability "stayfinder/internal/domain/availability"
	domainbooking "stayfinder/internal/domain/booking"
	domainproperties "stayfinder/internal/domain/properties"
	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
)

// PropertyHandler wires the public catalog queries to HTTP.
type PropertyHandler struct {
	Queries queries.Bus
}

// Catalog responds with a filtered collection of properties. With check_in
// and check_out set it behaves as the search endpoint: only properties whose
// whole run is bookable are returned.
func (h PropertyHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "property handler unavailable"})
		return
	}
	checkIn, ok := parseOptionalDate(c, c.Query("check_in"))
	if !ok {
		return
	}
	checkOut, ok := parseOptionalDate(c, c.Query("check_out"))
	if !ok {
		return
	}
	query := propertyapp.SearchQuery{
		Location:     c.Query("location"),
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Guests:       parseInt(c.Query("guests")),
		FeaturedOnly: strings.EqualFold(c.Query("featured"), "true"),
		Limit:        parseIntWithDefault(c.Query("limit"), 24),
		Offset:       parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[propertyapp.SearchQuery, dto.PropertyList](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "property handler unavailable"})
		return
	}
	propertyID := c.Param("id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "property id is required"})
		return
	}
	query := propertyapp.GetPropertyQuery{PropertyID: propertyID}
	result, err := queries.Ask[propertyapp.GetPropertyQuery, dto.PropertyDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Calendar returns just the bookable dates, for the date-picker widget.
func (h PropertyHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "property handler unavailable"})
		return
	}
	query := propertyapp.GetPropertyQuery{PropertyID: c.Param("id")}
	result, err := queries.Ask[propertyapp.GetPropertyQuery, dto.PropertyDetail](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Calendar)
}

// Quote prices a candidate stay without creating anything.
func (h PropertyHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "property handler unavailable"})
		return
	}
	checkIn, err := calendar.Parse(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := calendar.Parse(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}
	query := propertyapp.QuotePreviewQuery{
		PropertyID: c.Param("id"),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
	result, err := queries.Ask[propertyapp.QuotePreviewQuery, dto.QuoteDTO](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseOptionalDate(c *gin.Context, raw string) (calendar.Date, bool) {
	if strings.TrimSpace(raw) == "" {
		return calendar.Date{}, true
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must use YYYY-MM-DD"})
		return calendar.Date{}, false
	}
	return d, true
}

// respondDomainError translates domain failures into HTTP statuses shared by
// the public handlers.
func respondDomainError(c *gin.Context, err error) {
	var validation *domainbooking.ValidationError
	switch {
	case errors.Is(err, domainproperties.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": validation.Fields})
	case errors.Is(err, domainavailability.ErrRangeUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, daterange.ErrInvalidRange), errors.Is(err, domainbooking.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

var _ PropertyHTTP = PropertyHandler{}
