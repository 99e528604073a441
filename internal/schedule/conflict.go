package schedule

import (
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
)

// FilterConflicts removes candidates whose half-open interval
// [start, start+duration) intersects any existing booking's interval.
// Touching boundaries (candidate end == booking start, or the reverse)
// are not conflicts.
func FilterConflicts(candidates []model.Slot, bookings []*model.Booking) []model.Slot {
	if len(bookings) == 0 {
		return candidates
	}

	kept := make([]model.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if !overlapsAny(slot.Start, slot.End, bookings) {
			kept = append(kept, slot)
		}
	}
	return kept
}

// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff
// start < b.End && b.Start < end.
func overlapsAny(start, end time.Time, bookings []*model.Booking) bool {
	for _, b := range bookings {
		if start.Before(b.EndTime) && b.StartTime.Before(end) {
			return true
		}
	}
	return false
}
