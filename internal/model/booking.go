package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a reservation in the ledger. Only active bookings block
// availability; cancelled bookings free their slot.
type Booking struct {
	Base
	PractitionerID uuid.UUID     `db:"practitioner_id" json:"practitioner_id"`
	ClientID       uuid.UUID     `db:"client_id" json:"client_id"`
	ServiceType    ServiceType   `db:"service_type" json:"service_type"`
	StartTime      time.Time     `db:"start_time" json:"start_time"`
	EndTime        time.Time     `db:"end_time" json:"end_time"`
	Status         BookingStatus `db:"status" json:"status"`
	Notes          string        `db:"notes" json:"notes,omitempty"`
	CancelReason   *string       `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateBookingRequest struct {
	PractitionerID string `json:"practitioner_id" binding:"required,uuid"`
	ClientID       string `json:"client_id" binding:"required,uuid"`
	ServiceType    string `json:"service_type" binding:"required"`
	Date           string `json:"date" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	Notes          string `json:"notes" binding:"max=1000"`
}

type BookingFilters struct {
	PractitionerID uuid.UUID
	ClientID       uuid.UUID
	Status         BookingStatus
	StartDate      time.Time
	EndDate        time.Time
}
