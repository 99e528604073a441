package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
)

// ErrNotFound is returned when a requested row does not exist. Storage
// implementations translate their driver's sentinel to this one so callers
// can distinguish "unknown entity" from "store unreachable".
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned by BookingRepository.Create when the atomic
// reserve-if-free check finds a conflicting active booking.
var ErrSlotTaken = errors.New("slot already booked")

type (
	PractitionerRepository interface {
		Create(ctx context.Context, p *model.Practitioner) error
		Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
		List(ctx context.Context) ([]*model.Practitioner, error)
	}

	// BookingRepository is the ledger. The engine only reads it; Create is
	// the authoritative write path and performs the reserve-if-free check
	// atomically in a single statement.
	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		Cancel(ctx context.Context, booking *model.Booking) error
		List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error)
		// ListActiveInRange returns active bookings for the practitioner
		// whose interval intersects [from, to), ordered by start time.
		ListActiveInRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*model.Booking, error)
	}

	// CalendarRepository stores the admin-managed business calendar:
	// weekly opening hours and explicit closed dates.
	CalendarRepository interface {
		GetWeeklyHours(ctx context.Context, practitionerID uuid.UUID) (model.WeeklyHours, error)
		UpsertDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday, hours model.DayHours) error
		DeleteDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday) error
		AddClosedDate(ctx context.Context, closed *model.ClosedDate) error
		RemoveClosedDate(ctx context.Context, practitionerID uuid.UUID, date string) error
		ListClosedDates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ClosedDate, error)
	}
)
