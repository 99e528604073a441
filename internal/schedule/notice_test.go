package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
)

func slotAt(start time.Time, d time.Duration) model.Slot {
	return model.Slot{Start: start, End: start.Add(d)}
}

func TestFilterByNotice(t *testing.T) {
	loc := time.UTC
	policy := DefaultNoticePolicy()
	now := time.Date(2025, 7, 24, 20, 0, 0, 0, loc)

	t.Run("empty day requires 12 hours", func(t *testing.T) {
		slots := []model.Slot{
			slotAt(now.Add(11*time.Hour+59*time.Minute), time.Hour),
			slotAt(now.Add(12*time.Hour), time.Hour),
			slotAt(now.Add(13*time.Hour), time.Hour),
		}

		kept := FilterByNotice(slots, now, false, policy)
		require.Len(t, kept, 2)
		assert.True(t, kept[0].Start.Equal(now.Add(12*time.Hour)), "exactly 12h away is included")
	})

	t.Run("booked day requires 1 hour", func(t *testing.T) {
		slots := []model.Slot{
			slotAt(now.Add(59*time.Minute), time.Hour),
			slotAt(now.Add(time.Hour), time.Hour),
			slotAt(now.Add(90*time.Minute), time.Hour),
		}

		kept := FilterByNotice(slots, now, true, policy)
		require.Len(t, kept, 2)
		assert.True(t, kept[0].Start.Equal(now.Add(time.Hour)), "exactly 1h away is included")
	})

	t.Run("relaxation applies to the whole day", func(t *testing.T) {
		// Slots between 1h and 12h out: dropped on an empty day, all kept
		// once any booking exists that date, even ones earlier in the day
		// than the booking.
		slots := []model.Slot{
			slotAt(now.Add(2*time.Hour), time.Hour),
			slotAt(now.Add(5*time.Hour), time.Hour),
			slotAt(now.Add(8*time.Hour), time.Hour),
		}

		assert.Empty(t, FilterByNotice(slots, now, false, policy))
		assert.Len(t, FilterByNotice(slots, now, true, policy), 3)
	})

	t.Run("first booking only loosens the threshold", func(t *testing.T) {
		slots := []model.Slot{
			slotAt(now.Add(3*time.Hour), time.Hour),
			slotAt(now.Add(15*time.Hour), time.Hour),
		}

		before := FilterByNotice(slots, now, false, policy)
		after := FilterByNotice(slots, now, true, policy)

		// Every slot offered on the empty day is still offered after the
		// first booking appears; the transition never tightens.
		for _, s := range before {
			assert.Contains(t, after, s)
		}
		assert.GreaterOrEqual(t, len(after), len(before))
	})
}

func TestNoticePolicyThreshold(t *testing.T) {
	policy := DefaultNoticePolicy()
	assert.Equal(t, 12*time.Hour, policy.Threshold(false))
	assert.Equal(t, time.Hour, policy.Threshold(true))
}
