package schedule

import (
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
)

// DefaultSlotStep is the candidate granularity when none is configured.
const DefaultSlotStep = 30 * time.Minute

// GenerateCandidates enumerates candidate slots from open to
// (close - duration) inclusive, stepping at the given granularity.
// The sequence is ascending and deterministic. An empty window or a
// duration that does not fit yields nil, not an error.
func GenerateCandidates(open, close time.Time, duration, step time.Duration) []model.Slot {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !close.After(open) {
		return nil
	}

	var slots []model.Slot
	for t := open; !t.Add(duration).After(close); t = t.Add(step) {
		slots = append(slots, model.Slot{Start: t, End: t.Add(duration)})
	}
	return slots
}
