package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

// ErrUnknownServiceType is returned for a service type outside the
// configured catalog.
var ErrUnknownServiceType = fmt.Errorf("unknown service type")

const (
	calendarCacheTTL     = 5 * time.Minute
	calendarCacheCleanup = 15 * time.Minute
)

// Calendar answers the three calendar questions the engine asks: is the
// practitioner open on a date, what are the hours, and how long is a
// service. Hours and closed dates are admin-managed and change rarely, so
// they are cached with a short TTL. Booking data never flows through here.
type Calendar struct {
	repo     repository.CalendarRepository
	services map[model.ServiceType]time.Duration
	cache    *cache.Cache
}

func NewCalendar(repo repository.CalendarRepository, services map[model.ServiceType]time.Duration) *Calendar {
	return &Calendar{
		repo:     repo,
		services: services,
		cache:    cache.New(calendarCacheTTL, calendarCacheCleanup),
	}
}

// DurationFor resolves a service type to its fixed appointment duration.
func (c *Calendar) DurationFor(serviceType model.ServiceType) (time.Duration, error) {
	d, ok := c.services[serviceType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownServiceType, serviceType)
	}
	return d, nil
}

// ServiceTypes lists the configured catalog.
func (c *Calendar) ServiceTypes() []model.ServiceType {
	types := make([]model.ServiceType, 0, len(c.services))
	for st := range c.services {
		types = append(types, st)
	}
	return types
}

// IsOpen reports whether the date is a business day: open per weekly hours
// and not on the closed-date list. The closed-date list always wins.
func (c *Calendar) IsOpen(ctx context.Context, practitionerID uuid.UUID, date time.Time) (bool, error) {
	closed, err := c.isClosedDate(ctx, practitionerID, date)
	if err != nil {
		return false, err
	}
	if closed {
		return false, nil
	}

	hours, err := c.weeklyHours(ctx, practitionerID)
	if err != nil {
		return false, err
	}
	_, open := hours[date.Weekday()]
	return open, nil
}

// HoursFor returns the opening window for a date, or nil if the date is
// closed (weekly closure or explicit closed date).
func (c *Calendar) HoursFor(ctx context.Context, practitionerID uuid.UUID, date time.Time) (*model.DayHours, error) {
	closed, err := c.isClosedDate(ctx, practitionerID, date)
	if err != nil {
		return nil, err
	}
	if closed {
		return nil, nil
	}

	hours, err := c.weeklyHours(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	day, ok := hours[date.Weekday()]
	if !ok {
		return nil, nil
	}
	return &day, nil
}

// Invalidate drops cached calendar state for a practitioner. Admin write
// paths call this so the next availability query sees fresh configuration.
func (c *Calendar) Invalidate(practitionerID uuid.UUID) {
	c.cache.Delete(hoursCacheKey(practitionerID))
	c.cache.Delete(closedCacheKey(practitionerID))
}

func (c *Calendar) weeklyHours(ctx context.Context, practitionerID uuid.UUID) (model.WeeklyHours, error) {
	key := hoursCacheKey(practitionerID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(model.WeeklyHours), nil
	}

	hours, err := c.repo.GetWeeklyHours(ctx, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly hours: %w", err)
	}
	c.cache.SetDefault(key, hours)
	return hours, nil
}

func (c *Calendar) isClosedDate(ctx context.Context, practitionerID uuid.UUID, date time.Time) (bool, error) {
	key := closedCacheKey(practitionerID)
	if cached, ok := c.cache.Get(key); ok {
		_, closed := cached.(map[string]bool)[date.Format(DateLayout)]
		return closed, nil
	}

	dates, err := c.repo.ListClosedDates(ctx, practitionerID)
	if err != nil {
		return false, fmt.Errorf("failed to load closed dates: %w", err)
	}

	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d.Date] = true
	}
	c.cache.SetDefault(key, set)
	return set[date.Format(DateLayout)], nil
}

func hoursCacheKey(id uuid.UUID) string  { return "hours:" + id.String() }
func closedCacheKey(id uuid.UUID) string { return "closed:" + id.String() }
