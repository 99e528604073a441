package schedule

import (
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
)

// NoticePolicy is the minimum lead time between "now" and a slot's start
// before it may be offered. The threshold for a date depends on whether any
// booking already exists anywhere on that date: once one does, every
// remaining candidate for the day uses the relaxed threshold, including
// candidates earlier in the day than the existing booking.
type NoticePolicy struct {
	EmptyDay  time.Duration
	BookedDay time.Duration
}

// DefaultNoticePolicy returns the production policy: 12 hours for a date
// with no bookings, 1 hour once any booking exists that date.
func DefaultNoticePolicy() NoticePolicy {
	return NoticePolicy{
		EmptyDay:  12 * time.Hour,
		BookedDay: 1 * time.Hour,
	}
}

// Threshold selects the lead time to enforce for a date's current state.
func (p NoticePolicy) Threshold(hasAnyBookingToday bool) time.Duration {
	if hasAnyBookingToday {
		return p.BookedDay
	}
	return p.EmptyDay
}

// FilterByNotice keeps candidates satisfying start - now >= threshold.
// The boundary is inclusive: a slot exactly the threshold away is offered.
func FilterByNotice(candidates []model.Slot, now time.Time, hasAnyBookingToday bool, policy NoticePolicy) []model.Slot {
	threshold := policy.Threshold(hasAnyBookingToday)

	kept := make([]model.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if slot.Start.Sub(now) >= threshold {
			kept = append(kept, slot)
		}
	}
	return kept
}
