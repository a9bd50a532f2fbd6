package booking

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusDisputed  Status = "DISPUTED"
	StatusClosed    Status = "CLOSED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusActive, StatusCompleted,
		StatusCancelled, StatusDisputed, StatusClosed:
		return true
	default:
		return false
	}
}

// ConflictStatuses are the statuses that block new reservations: a
// live or provisionally held booking.
func ConflictStatuses() []Status {
	return []Status{StatusPending, StatusAccepted, StatusActive}
}

// AnalyticsStatuses additionally include COMPLETED, because analytics
// is historical utilization rather than a forward-looking hold.
func AnalyticsStatuses() []Status {
	return []Status{StatusAccepted, StatusActive, StatusCompleted}
}

// CalendarStatuses are the bookings worth showing on an exported
// calendar; same set as analytics.
func CalendarStatuses() []Status {
	return AnalyticsStatuses()
}

func StatusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
