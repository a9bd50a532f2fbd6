package api

import (
	"errors"
	"net/http"

	"fleetrent/internal/domain/user"
	reqdto "fleetrent/internal/handler/dto/request"
	resdto "fleetrent/internal/handler/dto/response"
	"fleetrent/internal/handler/middleware"
	"fleetrent/internal/usecase/commands"
	"fleetrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking request
// @Description Request a vehicle, a driver, or both for a date range; admitted atomically against the availability calendar
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	renter, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	start, err := reqdto.ParseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
		return
	}
	end, err := reqdto.ParseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
		return
	}

	input := commands.CreateBookingInput{
		VehicleID: req.VehicleListingID,
		DriverID:  req.DriverListingID,
		Start:     start,
		End:       end,
		Note:      req.Note,
	}

	newBooking, err := h.bookingCommands.CreateBookingRequest(c.Request.Context(), renter, input)
	if err != nil {
		respondBookingCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBooking(newBooking))
}

// @Summary Get booking
// @Description Get a booking by ID; renters only see their own
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	// Renters may only read their own bookings; a foreign booking is
	// indistinguishable from a missing one.
	role, _ := middleware.GetUserRole(c)
	if role == user.RoleRenter && view.RenterID != caller {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.bookingQueries.ListBookingsByRenter(c.Request.Context(), caller)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	out := make([]*resdto.BookingResponse, len(views))
	for i, v := range views {
		out[i] = resdto.FromBookingView(v)
	}
	c.JSON(http.StatusOK, out)
}

func respondBookingCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date range",
		})
	case errors.Is(err, commands.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Listing not found",
		})
	case errors.Is(err, commands.ErrCompanyMismatch):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Vehicle and driver must belong to the same company",
		})
	case errors.Is(err, commands.ErrNotAvailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Requested dates are not available",
			"conflicts": resdto.FromDomainConflicts(commands.ConflictsFrom(err)),
		})
	case errors.Is(err, commands.ErrVehicleNotAvailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Vehicle is already booked for these dates",
			"conflicts": resdto.FromDomainConflicts(commands.ConflictsFrom(err)),
		})
	case errors.Is(err, commands.ErrDriverNotAvailable):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Driver is already booked for these dates",
			"conflicts": resdto.FromDomainConflicts(commands.ConflictsFrom(err)),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
