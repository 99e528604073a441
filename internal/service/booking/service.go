package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/internal/schedule"
	availabilitySvc "github.com/jwalitptl/booking-api/internal/service/availability"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// Service is the booking write path. It checks the requested slot against
// the availability engine's rules before writing, then relies on the
// repository's atomic reserve-if-free insert as the authoritative guard.
type Service struct {
	repo          repository.BookingRepository
	practitioners repository.PractitionerRepository
	calendar      *schedule.Calendar
	availability  *availabilitySvc.Service
	broker        messaging.Broker
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

func NewService(
	repo repository.BookingRepository,
	practitioners repository.PractitionerRepository,
	calendar *schedule.Calendar,
	availability *availabilitySvc.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:          repo,
		practitioners: practitioners,
		calendar:      calendar,
		availability:  availability,
		broker:        broker,
		metrics:       m,
		logger:        log.WithComponent("booking"),
	}
}

// CreateBooking offers-then-reserves: the requested start must be one of the
// starts the engine would offer right now, and the insert re-validates
// atomically at write time.
func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	practitionerID, err := uuid.Parse(req.PractitionerID)
	if err != nil {
		return nil, errors.Validation("invalid practitioner_id", err)
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, errors.Validation("invalid client_id", err)
	}

	serviceType := model.ServiceType(req.ServiceType)
	duration, err := s.calendar.DurationFor(serviceType)
	if err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	day, err := s.availability.ComputeAvailability(ctx, &model.AvailabilityRequest{
		PractitionerID: practitionerID,
		Date:           req.Date,
		ServiceType:    serviceType,
	})
	if err != nil {
		return nil, err
	}
	if !day.IsBusinessDay {
		s.countRejection("closed_day")
		return nil, errors.Validation("practitioner is closed on this date", nil)
	}

	practitioner, err := s.practitioners.Get(ctx, practitionerID)
	if err != nil {
		return nil, errors.UpstreamUnavailable("practitioner store", err)
	}
	loc := schedule.LocationFor(practitioner.Timezone)

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, errors.Validation(err.Error(), err)
	}
	startAt, err := schedule.At(date, req.StartTime, loc)
	if err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	offered := false
	for _, slot := range day.AvailableSlots {
		if slot.Start.Equal(startAt) {
			offered = true
			break
		}
	}
	if !offered {
		s.countRejection("not_offered")
		return nil, errors.Conflict("requested slot is not available", nil)
	}

	booking := &model.Booking{
		PractitionerID: practitionerID,
		ClientID:       clientID,
		ServiceType:    serviceType,
		StartTime:      startAt,
		EndTime:        startAt.Add(duration),
		Status:         model.BookingStatusActive,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if err == repository.ErrSlotTaken {
			s.countRejection("slot_taken")
			return nil, errors.Conflict("slot was booked by a concurrent request", err)
		}
		return nil, errors.UpstreamUnavailable("booking ledger", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.publish(ctx, "booking_created", booking)

	return booking, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("booking", err)
		}
		return nil, errors.UpstreamUnavailable("booking ledger", err)
	}
	return booking, nil
}

// CancelBooking frees the slot: the booking no longer blocks availability
// and the day's notice threshold may tighten back for later queries.
func (s *Service) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*model.Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusCancelled {
		return nil, errors.Validation("booking is already cancelled", nil)
	}
	if booking.Status == model.BookingStatusCompleted {
		return nil, errors.Validation("cannot cancel a completed booking", nil)
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelReason = &reason

	if err := s.repo.Cancel(ctx, booking); err != nil {
		return nil, errors.UpstreamUnavailable("booking ledger", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.publish(ctx, "booking_cancelled", booking)

	return booking, nil
}

func (s *Service) ListBookings(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, errors.UpstreamUnavailable("booking ledger", err)
	}
	return bookings, nil
}

// publish emits a lifecycle event. Delivery is best effort; a broker outage
// must not fail the write that already committed.
func (s *Service) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, "bookings", messaging.Message{
		Type:    eventType,
		Payload: booking,
	}); err != nil {
		s.logger.Error(err, fmt.Sprintf("failed to publish %s event", eventType),
			"booking_id", booking.ID.String())
	}
}

func (s *Service) countRejection(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}
