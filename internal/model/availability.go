package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType is a closed enumeration configured at startup and mapped to a
// fixed appointment duration. It is configuration, never request-supplied
// free text that reaches the ledger.
type ServiceType string

// Slot is a candidate appointment start plus its implied end. A pure value,
// never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayHours is a single day's opening window as local wall-clock "HH:MM".
type DayHours struct {
	Open  string `db:"open_time" json:"start"`
	Close string `db:"close_time" json:"end"`
}

// WeeklyHours maps a weekday to its opening window. A missing weekday means
// closed that day of the week.
type WeeklyHours map[time.Weekday]DayHours

// ClosedDate is a specific calendar date the practitioner is closed,
// independent of weekday hours. Presence here always wins.
type ClosedDate struct {
	PractitionerID uuid.UUID `db:"practitioner_id" json:"practitioner_id"`
	Date           string    `db:"closed_on" json:"date"`
	Reason         string    `db:"reason" json:"reason,omitempty"`
}

// AvailabilityRequest identifies one availability computation. Date is an
// ISO-8601 calendar date interpreted in the practitioner's timezone.
type AvailabilityRequest struct {
	PractitionerID uuid.UUID
	Date           string
	ServiceType    ServiceType
}

// DayAvailability is the result of one availability computation.
// BookedSlots exposes the existing bookings' intervals for caller
// transparency; AvailableSlots are the offerable start times.
type DayAvailability struct {
	Date           string    `json:"date"`
	IsBusinessDay  bool      `json:"is_business_day"`
	BusinessHours  *DayHours `json:"business_hours,omitempty"`
	AvailableSlots []Slot    `json:"available_slots"`
	BookedSlots    []Slot    `json:"booked_slots"`
}
