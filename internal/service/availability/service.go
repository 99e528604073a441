package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/internal/schedule"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

// Service computes which appointment start times may be offered for a
// (practitioner, date, service type) triple. It is read-only and holds no
// state across requests: the ledger is re-read on every call so a booking
// committed a moment earlier is visible to the very next query.
type Service struct {
	practitioners repository.PractitionerRepository
	bookings      repository.BookingRepository
	calendar      *schedule.Calendar
	clock         schedule.Clock
	step          time.Duration
	policy        schedule.NoticePolicy
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

type Option func(*Service)

func WithClock(clock schedule.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithSlotStep(step time.Duration) Option {
	return func(s *Service) { s.step = step }
}

func WithNoticePolicy(policy schedule.NoticePolicy) Option {
	return func(s *Service) { s.policy = policy }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	practitioners repository.PractitionerRepository,
	bookings repository.BookingRepository,
	calendar *schedule.Calendar,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		practitioners: practitioners,
		bookings:      bookings,
		calendar:      calendar,
		clock:         schedule.SystemClock(),
		step:          schedule.DefaultSlotStep,
		policy:        schedule.DefaultNoticePolicy(),
		logger:        log.WithComponent("availability"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeAvailability validates the request, then runs the pipeline:
// business-day check, candidate generation, conflict filter, advance-notice
// filter, and a defensive postcondition check on the survivors. A closed
// date is a normal empty result, never an error.
func (s *Service) ComputeAvailability(ctx context.Context, req *model.AvailabilityRequest) (*model.DayAvailability, error) {
	practitioner, date, duration, err := s.validate(ctx, req)
	if err != nil {
		s.countOutcome("rejected")
		return nil, err
	}

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.AvailabilityLatency.Observe(time.Since(start).Seconds())
		}
	}()

	loc := schedule.LocationFor(practitioner.Timezone)

	open, err := s.calendar.IsOpen(ctx, practitioner.ID, date)
	if err != nil {
		s.countOutcome("upstream_error")
		return nil, errors.UpstreamUnavailable("calendar store", err)
	}
	if !open {
		s.countOutcome("closed")
		return &model.DayAvailability{
			Date:           req.Date,
			IsBusinessDay:  false,
			AvailableSlots: []model.Slot{},
			BookedSlots:    []model.Slot{},
		}, nil
	}

	hours, err := s.calendar.HoursFor(ctx, practitioner.ID, date)
	if err != nil {
		s.countOutcome("upstream_error")
		return nil, errors.UpstreamUnavailable("calendar store", err)
	}
	if hours == nil {
		// Calendar changed between the open check and the hours read.
		s.countOutcome("closed")
		return &model.DayAvailability{
			Date:           req.Date,
			IsBusinessDay:  false,
			AvailableSlots: []model.Slot{},
			BookedSlots:    []model.Slot{},
		}, nil
	}

	openAt, err := schedule.At(date, hours.Open, loc)
	if err != nil {
		return nil, errors.Internal(err)
	}
	closeAt, err := schedule.At(date, hours.Close, loc)
	if err != nil {
		return nil, errors.Internal(err)
	}

	candidates := schedule.GenerateCandidates(openAt, closeAt, duration, s.step)

	dayStart, dayEnd := schedule.DayBounds(date, loc)
	booked, err := s.bookings.ListActiveInRange(ctx, practitioner.ID, dayStart, dayEnd)
	if err != nil {
		s.countOutcome("upstream_error")
		return nil, errors.UpstreamUnavailable("booking ledger", err)
	}

	free := schedule.FilterConflicts(candidates, booked)

	now := s.clock.Now().In(loc)
	free = schedule.FilterByNotice(free, now, len(booked) > 0, s.policy)

	if err := s.checkInvariants(free, openAt, closeAt, booked); err != nil {
		if s.metrics != nil {
			s.metrics.InvariantViolations.Inc()
		}
		s.countOutcome("invariant_violation")
		s.logger.Error(err, "availability postcondition failed",
			"practitioner_id", practitioner.ID.String(), "date", req.Date)
		return nil, err
	}

	s.countOutcome("ok")
	if s.metrics != nil {
		s.metrics.SlotsOffered.Observe(float64(len(free)))
	}

	return &model.DayAvailability{
		Date:           req.Date,
		IsBusinessDay:  true,
		BusinessHours:  hours,
		AvailableSlots: free,
		BookedSlots:    bookedIntervals(booked),
	}, nil
}

// validate fails fast on bad input before any computation happens.
func (s *Service) validate(ctx context.Context, req *model.AvailabilityRequest) (*model.Practitioner, time.Time, time.Duration, error) {
	if req.PractitionerID == uuid.Nil {
		return nil, time.Time{}, 0, errors.Validation("practitioner_id is required", nil)
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, time.Time{}, 0, errors.Validation(err.Error(), err)
	}

	duration, err := s.calendar.DurationFor(req.ServiceType)
	if err != nil {
		return nil, time.Time{}, 0, errors.Validation(err.Error(), err)
	}

	practitioner, err := s.practitioners.Get(ctx, req.PractitionerID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, time.Time{}, 0, errors.Validation("unknown practitioner", err)
		}
		return nil, time.Time{}, 0, errors.UpstreamUnavailable("practitioner store", err)
	}

	return practitioner, date, duration, nil
}

// checkInvariants verifies every surviving slot against its own contract:
// fully inside business hours and disjoint from every active booking. A
// violation is a defect in the pipeline and aborts the request.
func (s *Service) checkInvariants(slots []model.Slot, openAt, closeAt time.Time, booked []*model.Booking) error {
	for _, slot := range slots {
		if slot.Start.Before(openAt) || slot.End.After(closeAt) {
			return errors.InvariantViolation("computed slot extends outside business hours")
		}
		for _, b := range booked {
			if slot.Start.Before(b.EndTime) && b.StartTime.Before(slot.End) {
				return errors.InvariantViolation("computed slot overlaps an active booking")
			}
		}
	}
	return nil
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.AvailabilityComputations.WithLabelValues(outcome).Inc()
	}
}

func bookedIntervals(bookings []*model.Booking) []model.Slot {
	slots := make([]model.Slot, 0, len(bookings))
	for _, b := range bookings {
		slots = append(slots, model.Slot{Start: b.StartTime, End: b.EndTime})
	}
	return slots
}
