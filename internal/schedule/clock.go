package schedule

import "time"

// Clock supplies "now" so the advance-notice policy is deterministic under
// test. Callers convert to the practitioner's location at the point of use.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock used in production.
func SystemClock() Clock { return systemClock{} }
