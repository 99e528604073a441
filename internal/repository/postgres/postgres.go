package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// instrumentation counts and times every repository call. A nil Metrics
// disables recording, which keeps test fixtures free of registry setup.
type instrumentation struct {
	metrics *metrics.Metrics
}

func (i instrumentation) observe(operation string, start time.Time, err error) {
	if i.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	i.metrics.DatabaseOperations.WithLabelValues(operation, status).Inc()
	i.metrics.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

type practitionerRepository struct {
	db *sqlx.DB
	instrumentation
}

type bookingRepository struct {
	db *sqlx.DB
	instrumentation
}

type calendarRepository struct {
	db *sqlx.DB
	instrumentation
}

func NewPractitionerRepository(db *sqlx.DB, m *metrics.Metrics) repository.PractitionerRepository {
	return &practitionerRepository{db: db, instrumentation: instrumentation{metrics: m}}
}

func NewBookingRepository(db *sqlx.DB, m *metrics.Metrics) repository.BookingRepository {
	return &bookingRepository{db: db, instrumentation: instrumentation{metrics: m}}
}

func NewCalendarRepository(db *sqlx.DB, m *metrics.Metrics) repository.CalendarRepository {
	return &calendarRepository{db: db, instrumentation: instrumentation{metrics: m}}
}
