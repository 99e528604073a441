package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/internal/schedule"
	availabilitySvc "github.com/jwalitptl/booking-api/internal/service/availability"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakePractitionerRepo struct {
	practitioners map[uuid.UUID]*model.Practitioner
}

func (f *fakePractitionerRepo) Create(ctx context.Context, p *model.Practitioner) error { return nil }

func (f *fakePractitionerRepo) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	p, ok := f.practitioners[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePractitionerRepo) List(ctx context.Context) ([]*model.Practitioner, error) {
	return nil, nil
}

type fakeBookingRepo struct {
	bookings  map[uuid.UUID]*model.Booking
	createErr error
	cancelErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*model.Booking{}}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uuid.New()
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, b *model.Booking) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filters *model.BookingFilters) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListActiveInRange(ctx context.Context, practitionerID uuid.UUID, from, to time.Time) ([]*model.Booking, error) {
	var active []*model.Booking
	for _, b := range f.bookings {
		if b.Status != model.BookingStatusActive || b.PractitionerID != practitionerID {
			continue
		}
		if b.StartTime.Before(to) && b.EndTime.After(from) {
			active = append(active, b)
		}
	}
	return active, nil
}

type fakeCalendarRepo struct {
	hours model.WeeklyHours
}

func (f *fakeCalendarRepo) GetWeeklyHours(ctx context.Context, practitionerID uuid.UUID) (model.WeeklyHours, error) {
	return f.hours, nil
}

func (f *fakeCalendarRepo) UpsertDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday, hours model.DayHours) error {
	return nil
}

func (f *fakeCalendarRepo) DeleteDayHours(ctx context.Context, practitionerID uuid.UUID, weekday time.Weekday) error {
	return nil
}

func (f *fakeCalendarRepo) AddClosedDate(ctx context.Context, closed *model.ClosedDate) error {
	return nil
}

func (f *fakeCalendarRepo) RemoveClosedDate(ctx context.Context, practitionerID uuid.UUID, date string) error {
	return nil
}

func (f *fakeCalendarRepo) ListClosedDates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ClosedDate, error) {
	return nil, nil
}

type fakeBroker struct {
	published []messaging.Message
	err       error
}

func (f *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if f.err != nil {
		return f.err
	}
	if msg, ok := message.(messaging.Message); ok {
		f.published = append(f.published, msg)
	}
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

type fixture struct {
	svc            *Service
	repo           *fakeBookingRepo
	broker         *fakeBroker
	practitionerID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	now := time.Date(2025, 7, 24, 20, 0, 0, 0, loc)

	id := uuid.New()
	practitioners := &fakePractitionerRepo{
		practitioners: map[uuid.UUID]*model.Practitioner{
			id: {
				Base:     model.Base{ID: id},
				Name:     "Dana",
				Timezone: "America/Chicago",
				Status:   model.PractitionerStatusActive,
			},
		},
	}

	hours := model.WeeklyHours{}
	for d := time.Monday; d <= time.Friday; d++ {
		hours[d] = model.DayHours{Open: "09:00", Close: "17:00"}
	}

	calendar := schedule.NewCalendar(&fakeCalendarRepo{hours: hours}, map[model.ServiceType]time.Duration{
		"standard_60": 60 * time.Minute,
	})

	repo := newFakeBookingRepo()
	log := logger.NewLogger(nil)

	availability := availabilitySvc.NewService(practitioners, repo, calendar, log,
		availabilitySvc.WithClock(fixedClock{now: now}),
		availabilitySvc.WithSlotStep(time.Hour),
	)

	broker := &fakeBroker{}
	svc := NewService(repo, practitioners, calendar, availability, broker, nil, log)

	return &fixture{
		svc:            svc,
		repo:           repo,
		broker:         broker,
		practitionerID: id,
	}
}

func (f *fixture) createRequest(start string) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		PractitionerID: f.practitionerID.String(),
		ClientID:       uuid.New().String(),
		ServiceType:    "standard_60",
		Date:           "2025-07-25",
		StartTime:      start,
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusActive, booking.Status)
	assert.Equal(t, time.Hour, booking.EndTime.Sub(booking.StartTime))
	assert.Equal(t, 10, booking.StartTime.Hour())

	require.Len(t, f.broker.published, 1)
	assert.Equal(t, "booking_created", f.broker.published[0].Type)
}

func TestCreateBooking_SlotNotOffered(t *testing.T) {
	f := newFixture(t)

	// 08:00 is before opening; never on the offered list.
	_, err := f.svc.CreateBooking(context.Background(), f.createRequest("08:00"))
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
}

func TestCreateBooking_SlotAlreadyTaken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)

	// Same slot again: the engine no longer offers it.
	_, err = f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.Error(t, err)
	appErr, _ := errors.AsAppError(err)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
}

func TestCreateBooking_ConcurrentReserveLoses(t *testing.T) {
	f := newFixture(t)
	f.repo.createErr = repository.ErrSlotTaken

	_, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "concurrent")
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*model.CreateBookingRequest)
	}{
		{"bad practitioner id", func(r *model.CreateBookingRequest) { r.PractitionerID = "nope" }},
		{"bad client id", func(r *model.CreateBookingRequest) { r.ClientID = "nope" }},
		{"unknown service type", func(r *model.CreateBookingRequest) { r.ServiceType = "mystery" }},
		{"bad start time", func(r *model.CreateBookingRequest) { r.StartTime = "10am" }},
		{"closed date", func(r *model.CreateBookingRequest) { r.Date = "2025-07-27" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest("10:00")
			tt.mutate(req)
			_, err := f.svc.CreateBooking(context.Background(), req)
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrValidation, appErr.Code)
		})
	}
}

func TestCreateBooking_BrokerOutageDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.broker.err = fmt.Errorf("broker down")

	booking, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, booking.ID)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelBooking(context.Background(), booking.ID, "client request")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "client request", *cancelled.CancelReason)

	require.Len(t, f.broker.published, 2)
	assert.Equal(t, "booking_cancelled", f.broker.published[1].Type)
}

func TestCancelBooking_FreesTheSlot(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(context.Background(), booking.ID, "reschedule")
	require.NoError(t, err)

	// The slot is bookable again once the original is cancelled.
	rebooked, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)
	assert.True(t, rebooked.StartTime.Equal(booking.StartTime))
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.CreateBooking(context.Background(), f.createRequest("10:00"))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(context.Background(), booking.ID, "first")
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(context.Background(), booking.ID, "second")
	require.Error(t, err)
	appErr, _ := errors.AsAppError(err)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CancelBooking(context.Background(), uuid.New(), "whatever")
	require.Error(t, err)
	appErr, _ := errors.AsAppError(err)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
