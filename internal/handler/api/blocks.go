package api

import (
	"errors"
	"net/http"
	"time"

	"fleetrent/internal/domain/listing"
	reqdto "fleetrent/internal/handler/dto/request"
	resdto "fleetrent/internal/handler/dto/response"
	"fleetrent/internal/handler/middleware"
	"fleetrent/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlockHandler struct {
	blockCommands commands.BlockCommands
}

func NewBlockHandler(blockCommands commands.BlockCommands) *BlockHandler {
	return &BlockHandler{
		blockCommands: blockCommands,
	}
}

// @Summary Create block
// @Description Block a date range on one listing
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBlockRequest true "Block request"
// @Success 201 {object} resdto.BlockResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /blocks [post]
func (h *BlockHandler) CreateBlock(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	ref, start, end, ok := h.blockTarget(c, req.ListingID, req.ListingType, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	block, err := h.blockCommands.CreateBlock(c.Request.Context(), actor, ref, start, end, reqdto.TrimReason(req.Reason))
	if err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBlock(block))
}

// @Summary Create blocks in bulk
// @Description Block the same date range on several listings; partial failures are reported per listing
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBlocksRequest true "Bulk block request"
// @Success 200 {object} resdto.BulkBlockResponse
// @Failure 400 {object} map[string]string
// @Router /blocks/bulk [post]
func (h *BlockHandler) CreateBlocks(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBlocksRequest
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

	refs := make([]listing.Ref, len(req.Listings))
	for i, l := range req.Listings {
		ref, refErr := listing.NewRef(l.ListingID, listing.Type(l.ListingType))
		if refErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid listing type",
			})
			return
		}
		refs[i] = ref
	}

	result, err := h.blockCommands.CreateBlocks(c.Request.Context(), actor, refs, start, end, reqdto.TrimReason(req.Reason))
	if err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBulkBlockResult(result))
}

// @Summary Delete block
// @Description Delete a manual block; only its creator may delete it
// @Tags blocks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Block ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /blocks/{id} [delete]
func (h *BlockHandler) DeleteBlock(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid block ID format",
		})
		return
	}

	if err := h.blockCommands.DeleteBlock(c.Request.Context(), actor, id); err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Create recurring block pattern
// @Description Create a weekly recurring unavailability rule
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRecurringPatternRequest true "Pattern request"
// @Success 201 {object} resdto.PatternResponse
// @Failure 400 {object} map[string]string
// @Router /recurring-blocks [post]
func (h *BlockHandler) CreateRecurringPattern(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateRecurringPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	ref, err := listing.NewRef(req.ListingID, listing.Type(req.ListingType))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid listing type",
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
	end, err := reqdto.ParseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
		return
	}

	pattern, err := h.blockCommands.CreateRecurringPattern(c.Request.Context(), actor, ref, req.DaysOfWeek, start, end, reqdto.TrimReason(req.Reason))
	if err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPattern(pattern))
}

// @Summary Update recurring block pattern
// @Description Update a rule for all occurrences or only from a pivot date forward
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pattern ID"
// @Param request body reqdto.UpdateRecurringPatternRequest true "Partial update with scope"
// @Success 200 {object} resdto.PatternResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /recurring-blocks/{id} [patch]
func (h *BlockHandler) UpdateRecurringPattern(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pattern ID format",
		})
		return
	}

	var req reqdto.UpdateRecurringPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	endDate, err := reqdto.ParseOptionalDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
		return
	}
	pivot, ok := resolvePivot(c, req.Pivot)
	if !ok {
		return
	}

	changes := commands.PatternChanges{
		DaysOfWeek:   req.DaysOfWeek,
		EndDate:      endDate,
		ClearEndDate: req.ClearEndDate,
		Reason:       reqdto.TrimReason(req.Reason),
	}

	pattern, err := h.blockCommands.UpdateRecurringPattern(c.Request.Context(), actor, id, changes, commands.Scope(req.Scope), pivot)
	if err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPattern(pattern))
}

// @Summary Delete recurring block pattern
// @Description Delete a rule entirely or truncate it from a pivot date forward
// @Tags blocks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pattern ID"
// @Param request body reqdto.DeleteRecurringPatternRequest true "Scope and pivot"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /recurring-blocks/{id} [delete]
func (h *BlockHandler) DeleteRecurringPattern(c *gin.Context) {
	actor, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pattern ID format",
		})
		return
	}

	var req reqdto.DeleteRecurringPatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	pivot, ok := resolvePivot(c, req.Pivot)
	if !ok {
		return
	}

	if err := h.blockCommands.DeleteRecurringPattern(c.Request.Context(), actor, id, commands.Scope(req.Scope), pivot); err != nil {
		respondBlockCommandError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BlockHandler) blockTarget(c *gin.Context, id uuid.UUID, listingType, startDate, endDate string) (listing.Ref, time.Time, time.Time, bool) {
	ref, err := listing.NewRef(id, listing.Type(listingType))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid listing type",
		})
		return listing.Ref{}, time.Time{}, time.Time{}, false
	}

	start, err := reqdto.ParseDate(startDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
		return listing.Ref{}, time.Time{}, time.Time{}, false
	}
	end, err := reqdto.ParseDate(endDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
		return listing.Ref{}, time.Time{}, time.Time{}, false
	}

	return ref, start, end, true
}

// resolvePivot parses the optional pivot; the zero value lets the
// command layer default it to the current date.
func resolvePivot(c *gin.Context, pivot string) (time.Time, bool) {
	if pivot == "" {
		return time.Time{}, true
	}
	t, err := reqdto.ParseDate(pivot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid pivot date, expected YYYY-MM-DD",
		})
		return time.Time{}, false
	}
	return t, true
}

func respondBlockCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date range",
		})
	case errors.Is(err, commands.ErrInvalidDaysOfWeek):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid days of week",
		})
	case errors.Is(err, commands.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid scope",
		})
	case errors.Is(err, commands.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not allowed to modify this entry",
		})
	case errors.Is(err, commands.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Block not found",
		})
	case errors.Is(err, commands.ErrRecurringBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Recurring block not found",
		})
	case errors.Is(err, commands.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Dates conflict with existing bookings",
			"conflicts": resdto.FromDomainConflicts(commands.ConflictsFrom(err)),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
