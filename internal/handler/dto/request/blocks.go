package request

import (
	"strings"

	"github.com/google/uuid"
)

type CreateBlockRequest struct {
	ListingID   uuid.UUID `json:"listing_id" binding:"required"`
	ListingType string    `json:"listing_type" binding:"required,oneof=vehicle driver"`
	StartDate   string    `json:"start_date" binding:"required"`
	EndDate     string    `json:"end_date" binding:"required"`
	Reason      *string   `json:"reason,omitempty"`
}

type BulkBlockListing struct {
	ListingID   uuid.UUID `json:"listing_id" binding:"required"`
	ListingType string    `json:"listing_type" binding:"required,oneof=vehicle driver"`
}

type CreateBlocksRequest struct {
	Listings  []BulkBlockListing `json:"listings" binding:"required,min=1,dive"`
	StartDate string             `json:"start_date" binding:"required"`
	EndDate   string             `json:"end_date" binding:"required"`
	Reason    *string            `json:"reason,omitempty"`
}

type CreateRecurringPatternRequest struct {
	ListingID   uuid.UUID `json:"listing_id" binding:"required"`
	ListingType string    `json:"listing_type" binding:"required,oneof=vehicle driver"`
	DaysOfWeek  []int     `json:"days_of_week" binding:"required,min=1"`
	StartDate   string    `json:"start_date" binding:"required"`
	EndDate     string    `json:"end_date,omitempty"`
	Reason      *string   `json:"reason,omitempty"`
}

// UpdateRecurringPatternRequest is a partial update; absent fields keep
// their current value. Setting clear_end_date makes the rule
// open-ended regardless of end_date.
type UpdateRecurringPatternRequest struct {
	DaysOfWeek   []int   `json:"days_of_week,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	ClearEndDate bool    `json:"clear_end_date,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	Scope        string  `json:"scope" binding:"required,oneof=all future"`
	Pivot        string  `json:"pivot,omitempty"`
}

type DeleteRecurringPatternRequest struct {
	Scope string `json:"scope" binding:"required,oneof=all future"`
	Pivot string `json:"pivot,omitempty"`
}

func TrimReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
