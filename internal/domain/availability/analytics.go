package availability

// Analytics summarizes how a listing's capacity was spent over a
// period. Utilization is the fraction of available (non-blocked) days
// actually booked, not a fraction of the whole period.
type Analytics struct {
	TotalDays         int
	BlockedDays       int
	BookedDays        int
	AvailableDays     int
	BlockedPercentage float64
	UtilizationRate   float64
}

// ComputeAnalytics counts unique blocked and booked days over the
// period. Inputs are expected pre-clipped to the period; clipping is
// re-applied here so stray wider ranges cannot inflate the counts.
func ComputeAnalytics(period DateRange, blocked []DateRange, booked []DateRange) Analytics {
	totalDays := period.Days()

	blockedDays := len(UniqueDays(clipAll(blocked, period)))
	bookedDays := len(UniqueDays(clipAll(booked, period)))

	availableDays := totalDays - blockedDays

	blockedPercentage := float64(blockedDays) / float64(totalDays) * 100

	// A fully blocked period has zero utilization, not a division by
	// zero.
	utilizationRate := 0.0
	if availableDays > 0 {
		utilizationRate = float64(bookedDays) / float64(availableDays) * 100
		// Completed bookings can share days with later blocks, which
		// pushes booked past available; utilization caps at full.
		if utilizationRate > 100 {
			utilizationRate = 100
		}
	}

	return Analytics{
		TotalDays:         totalDays,
		BlockedDays:       blockedDays,
		BookedDays:        bookedDays,
		AvailableDays:     availableDays,
		BlockedPercentage: blockedPercentage,
		UtilizationRate:   utilizationRate,
	}
}

func clipAll(ranges []DateRange, window DateRange) []DateRange {
	out := make([]DateRange, 0, len(ranges))
	for _, r := range ranges {
		if clipped, ok := r.Clip(window); ok {
			out = append(out, clipped)
		}
	}
	return out
}
