package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

// Create inserts a booking only if no active booking overlaps its interval.
// The conflict check and the insert are one statement, so the check is
// atomic: the availability engine's filtering is advisory, this is the
// authoritative guard against double booking.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) (err error) {
	start := time.Now()
	defer func() { r.observe("booking_create", start, err) }()

	query := `
		INSERT INTO bookings (
			id, practitioner_id, client_id, service_type,
			start_time, end_time, status, notes,
			created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE practitioner_id = $2
			AND status = 'active'
			AND start_time < $6
			AND end_time > $5
		)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PractitionerID,
		booking.ClientID,
		booking.ServiceType,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrSlotTaken
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, practitioner_id, client_id, service_type,
			   start_time, end_time, status, notes, cancel_reason,
			   created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	start := time.Now()
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	r.observe("booking_get", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, booking *model.Booking) (err error) {
	start := time.Now()
	defer func() { r.observe("booking_cancel", start, err) }()

	query := `
		UPDATE bookings
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.Status,
		booking.CancelReason,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	query := `
		SELECT id, practitioner_id, client_id, service_type,
			   start_time, end_time, status, notes, cancel_reason,
			   created_at, updated_at
		FROM bookings
		WHERE practitioner_id = $1
	`
	args := []interface{}{filters.PractitionerID}
	argCount := 2

	if filters.ClientID != uuid.Nil {
		query += fmt.Sprintf(" AND client_id = $%d", argCount)
		args = append(args, filters.ClientID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	start := time.Now()
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	r.observe("booking_list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListActiveInRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, practitioner_id, client_id, service_type,
			   start_time, end_time, status, notes, cancel_reason,
			   created_at, updated_at
		FROM bookings
		WHERE practitioner_id = $1
		AND status = 'active'
		AND start_time < $3
		AND end_time > $2
		ORDER BY start_time ASC
	`
	start := time.Now()
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, practitionerID, from, to)
	r.observe("booking_list_active", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}
	return bookings, nil
}
