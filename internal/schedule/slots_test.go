package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCandidates(t *testing.T) {
	loc := time.UTC
	open := time.Date(2025, 7, 25, 9, 0, 0, 0, loc)
	close := time.Date(2025, 7, 25, 17, 0, 0, 0, loc)

	t.Run("60 minute service at 30 minute step", func(t *testing.T) {
		slots := GenerateCandidates(open, close, 60*time.Minute, 30*time.Minute)

		// 09:00 through 16:00 inclusive, every 30 minutes.
		require.Len(t, slots, 15)
		assert.True(t, slots[0].Start.Equal(open))
		assert.True(t, slots[0].End.Equal(open.Add(time.Hour)))

		last := slots[len(slots)-1]
		assert.True(t, last.Start.Equal(time.Date(2025, 7, 25, 16, 0, 0, 0, loc)))
		assert.True(t, last.End.Equal(close))
	})

	t.Run("60 minute step", func(t *testing.T) {
		slots := GenerateCandidates(open, close, 60*time.Minute, 60*time.Minute)
		require.Len(t, slots, 8)
		assert.True(t, slots[7].Start.Equal(time.Date(2025, 7, 25, 16, 0, 0, 0, loc)))
	})

	t.Run("ascending deterministic order", func(t *testing.T) {
		slots := GenerateCandidates(open, close, 90*time.Minute, 30*time.Minute)
		for i := 1; i < len(slots); i++ {
			assert.True(t, slots[i].Start.After(slots[i-1].Start))
		}
		again := GenerateCandidates(open, close, 90*time.Minute, 30*time.Minute)
		assert.Equal(t, slots, again)
	})

	t.Run("duration longer than window", func(t *testing.T) {
		shortClose := open.Add(45 * time.Minute)
		assert.Empty(t, GenerateCandidates(open, shortClose, time.Hour, 30*time.Minute))
	})

	t.Run("empty window", func(t *testing.T) {
		assert.Empty(t, GenerateCandidates(open, open, time.Hour, 30*time.Minute))
		assert.Empty(t, GenerateCandidates(close, open, time.Hour, 30*time.Minute))
	})

	t.Run("invalid duration or step", func(t *testing.T) {
		assert.Empty(t, GenerateCandidates(open, close, 0, 30*time.Minute))
		assert.Empty(t, GenerateCandidates(open, close, time.Hour, 0))
	})

	t.Run("last slot ends exactly at close", func(t *testing.T) {
		slots := GenerateCandidates(open, close, 2*time.Hour, time.Hour)
		last := slots[len(slots)-1]
		assert.True(t, last.End.Equal(close), "slot ending exactly at close is included")
	})
}
