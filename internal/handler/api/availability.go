package api

import (
	"errors"
	"net/http"
	"time"

	"fleetrent/internal/domain/listing"
	reqdto "fleetrent/internal/handler/dto/request"
	resdto "fleetrent/internal/handler/dto/response"
	"fleetrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
	analyticsQueries    queries.AnalyticsQueries
	calendarQueries     queries.CalendarQueries
}

func NewAvailabilityHandler(
	availabilityQueries queries.AvailabilityQueries,
	analyticsQueries queries.AnalyticsQueries,
	calendarQueries queries.CalendarQueries,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
		analyticsQueries:    analyticsQueries,
		calendarQueries:     calendarQueries,
	}
}

// parseListingRef reads the :type/:id path segments.
func parseListingRef(c *gin.Context) (listing.Ref, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid listing ID format",
		})
		return listing.Ref{}, false
	}

	ref, err := listing.NewRef(id, listing.Type(c.Param("type")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid listing type",
		})
		return listing.Ref{}, false
	}
	return ref, true
}

// parseWindow reads required start/end query params.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := reqdto.ParseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing start date, expected YYYY-MM-DD",
		})
		return time.Time{}, time.Time{}, false
	}
	end, err := reqdto.ParseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing end date, expected YYYY-MM-DD",
		})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// @Summary Check availability
// @Description Resolve blocks, recurring instances and bookings for a window
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param type path string true "Listing type" Enums(vehicle, driver)
// @Param id path string true "Listing ID"
// @Param start query string true "Window start (YYYY-MM-DD)"
// @Param end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Router /listings/{type}/{id}/availability [get]
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	ref, ok := parseListingRef(c)
	if !ok {
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	view, err := h.availabilityQueries.CheckAvailability(c.Request.Context(), ref, start, end)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary List blocks
// @Description List manual blocks touching a window
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param type path string true "Listing type" Enums(vehicle, driver)
// @Param id path string true "Listing ID"
// @Param start query string true "Window start (YYYY-MM-DD)"
// @Param end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {array} resdto.BlockResponse
// @Router /listings/{type}/{id}/blocks [get]
func (h *AvailabilityHandler) ListBlocks(c *gin.Context) {
	ref, ok := parseListingRef(c)
	if !ok {
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	views, err := h.availabilityQueries.ListBlocks(c.Request.Context(), ref, start, end)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	out := make([]*resdto.BlockResponse, len(views))
	for i, v := range views {
		out[i] = resdto.FromBlockView(v)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary List recurring patterns
// @Description List recurring block rules active in a window
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param type path string true "Listing type" Enums(vehicle, driver)
// @Param id path string true "Listing ID"
// @Param start query string true "Window start (YYYY-MM-DD)"
// @Param end query string true "Window end (YYYY-MM-DD)"
// @Success 200 {array} resdto.PatternResponse
// @Router /listings/{type}/{id}/recurring-blocks [get]
func (h *AvailabilityHandler) ListPatterns(c *gin.Context) {
	ref, ok := parseListingRef(c)
	if !ok {
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	views, err := h.availabilityQueries.ListPatterns(c.Request.Context(), ref, start, end)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	out := make([]*resdto.PatternResponse, len(views))
	for i, v := range views {
		out[i] = resdto.FromPatternView(v)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Availability analytics
// @Description Blocked/booked/utilization aggregates over a period
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param type path string true "Listing type" Enums(vehicle, driver)
// @Param id path string true "Listing ID"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} resdto.AnalyticsResponse
// @Router /listings/{type}/{id}/analytics [get]
func (h *AvailabilityHandler) GetAnalytics(c *gin.Context) {
	ref, ok := parseListingRef(c)
	if !ok {
		return
	}
	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	view, err := h.analyticsQueries.GetAnalytics(c.Request.Context(), ref, start, end)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAnalyticsView(view))
}

// @Summary Export calendar
// @Description iCalendar export of blocks, recurring instances and bookings
// @Tags availability
// @Produce text/calendar
// @Security BearerAuth
// @Param type path string true "Listing type" Enums(vehicle, driver)
// @Param id path string true "Listing ID"
// @Param start query string false "Range start (YYYY-MM-DD), defaults to today"
// @Param end query string false "Range end (YYYY-MM-DD), defaults to the export horizon"
// @Success 200 {string} string "VCALENDAR document"
// @Router /listings/{type}/{id}/calendar.ics [get]
func (h *AvailabilityHandler) ExportCalendar(c *gin.Context) {
	ref, ok := parseListingRef(c)
	if !ok {
		return
	}

	start, err := reqdto.ParseOptionalDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
		return
	}
	end, err := reqdto.ParseOptionalDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
		return
	}

	doc, err := h.calendarQueries.ExportCalendar(c.Request.Context(), ref, start, end)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc.Content))
}

func respondQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date range",
		})
	case errors.Is(err, queries.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Listing not found",
		})
	case errors.Is(err, queries.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
