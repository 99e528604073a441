package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
)

type weeklyHoursRow struct {
	Weekday   int    `db:"weekday"`
	OpenTime  string `db:"open_time"`
	CloseTime string `db:"close_time"`
}

func (r *calendarRepository) GetWeeklyHours(ctx context.Context, practitionerID uuid.UUID) (model.WeeklyHours, error) {
	query := `
		SELECT weekday, open_time, close_time
		FROM practitioner_hours
		WHERE practitioner_id = $1
		ORDER BY weekday ASC
	`
	start := time.Now()
	var rows []weeklyHoursRow
	err := r.db.SelectContext(ctx, &rows, query, practitionerID)
	r.observe("calendar_hours_get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly hours: %w", err)
	}

	hours := make(model.WeeklyHours, len(rows))
	for _, row := range rows {
		hours[time.Weekday(row.Weekday)] = model.DayHours{
			Open:  row.OpenTime,
			Close: row.CloseTime,
		}
	}
	return hours, nil
}

func (r *calendarRepository) UpsertDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday, hours model.DayHours) error {
	query := `
		INSERT INTO practitioner_hours (practitioner_id, weekday, open_time, close_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (practitioner_id, weekday)
		DO UPDATE SET open_time = $3, close_time = $4
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, practitionerID, int(weekday), hours.Open, hours.Close)
	r.observe("calendar_hours_upsert", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert day hours: %w", err)
	}
	return nil
}

func (r *calendarRepository) DeleteDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday) error {
	query := `
		DELETE FROM practitioner_hours
		WHERE practitioner_id = $1 AND weekday = $2
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, practitionerID, int(weekday))
	r.observe("calendar_hours_delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete day hours: %w", err)
	}
	return nil
}

func (r *calendarRepository) AddClosedDate(ctx context.Context, closed *model.ClosedDate) error {
	query := `
		INSERT INTO practitioner_closed_dates (practitioner_id, closed_on, reason)
		VALUES ($1, $2, $3)
		ON CONFLICT (practitioner_id, closed_on) DO NOTHING
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, closed.PractitionerID, closed.Date, closed.Reason)
	r.observe("calendar_closed_add", start, err)
	if err != nil {
		return fmt.Errorf("failed to add closed date: %w", err)
	}
	return nil
}

func (r *calendarRepository) RemoveClosedDate(ctx context.Context, practitionerID uuid.UUID, date string) error {
	query := `
		DELETE FROM practitioner_closed_dates
		WHERE practitioner_id = $1 AND closed_on = $2
	`
	start := time.Now()
	_, err := r.db.ExecContext(ctx, query, practitionerID, date)
	r.observe("calendar_closed_remove", start, err)
	if err != nil {
		return fmt.Errorf("failed to remove closed date: %w", err)
	}
	return nil
}

func (r *calendarRepository) ListClosedDates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ClosedDate, error) {
	query := `
		SELECT practitioner_id, closed_on, reason
		FROM practitioner_closed_dates
		WHERE practitioner_id = $1
		ORDER BY closed_on ASC
	`
	start := time.Now()
	var dates []*model.ClosedDate
	err := r.db.SelectContext(ctx, &dates, query, practitionerID)
	r.observe("calendar_closed_list", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed dates: %w", err)
	}
	return dates, nil
}
