package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
)

func booking(start, end time.Time) *model.Booking {
	return &model.Booking{
		StartTime: start,
		EndTime:   end,
		Status:    model.BookingStatusActive,
	}
}

func TestFilterConflicts(t *testing.T) {
	loc := time.UTC
	at := func(h, m int) time.Time {
		return time.Date(2025, 7, 25, h, m, 0, 0, loc)
	}

	open := at(9, 0)
	close := at(17, 0)
	candidates := GenerateCandidates(open, close, time.Hour, time.Hour)

	t.Run("no bookings keeps everything", func(t *testing.T) {
		kept := FilterConflicts(candidates, nil)
		assert.Equal(t, candidates, kept)
	})

	t.Run("overlapping candidate removed", func(t *testing.T) {
		kept := FilterConflicts(candidates, []*model.Booking{
			booking(at(10, 0), at(11, 0)),
		})

		for _, slot := range kept {
			assert.False(t, slot.Start.Equal(at(10, 0)), "10:00 must be filtered")
		}
		require.Len(t, kept, len(candidates)-1)
	})

	t.Run("partial overlap removed", func(t *testing.T) {
		// A booking at 10:30-11:30 kills both the 10:00 and 11:00 candidates.
		kept := FilterConflicts(candidates, []*model.Booking{
			booking(at(10, 30), at(11, 30)),
		})
		require.Len(t, kept, len(candidates)-2)
	})

	t.Run("touching boundaries are not conflicts", func(t *testing.T) {
		// Booking 10:00-11:00: candidate ending 10:00 and candidate
		// starting 11:00 both survive.
		kept := FilterConflicts(candidates, []*model.Booking{
			booking(at(10, 0), at(11, 0)),
		})

		starts := make(map[string]bool)
		for _, slot := range kept {
			starts[FormatWallClock(slot.Start)] = true
		}
		assert.True(t, starts["09:00"], "candidate ending at booking start survives")
		assert.True(t, starts["11:00"], "candidate starting at booking end survives")
		assert.False(t, starts["10:00"])
	})

	t.Run("multiple bookings", func(t *testing.T) {
		kept := FilterConflicts(candidates, []*model.Booking{
			booking(at(9, 0), at(10, 0)),
			booking(at(14, 0), at(15, 0)),
		})
		require.Len(t, kept, len(candidates)-2)
	})
}
