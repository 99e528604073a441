package calendar

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/internal/schedule"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

// Handler exposes the admin surface for the business calendar: weekly
// opening hours and explicit closed dates. Writes invalidate the calendar
// cache so the next availability query sees the change.
type Handler struct {
	repo     repository.CalendarRepository
	calendar *schedule.Calendar
}

func NewHandler(repo repository.CalendarRepository, cal *schedule.Calendar) *Handler {
	return &Handler{repo: repo, calendar: cal}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	practitioners := r.Group("/practitioners/:id")
	{
		practitioners.GET("/hours", h.GetWeeklyHours)
		practitioners.PUT("/hours/:weekday", h.UpsertDayHours)
		practitioners.DELETE("/hours/:weekday", h.DeleteDayHours)
		practitioners.GET("/closed-dates", h.ListClosedDates)
		practitioners.POST("/closed-dates", h.AddClosedDate)
		practitioners.DELETE("/closed-dates/:date", h.RemoveClosedDate)
	}
}

func (h *Handler) GetWeeklyHours(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return
	}

	hours, err := h.repo.GetWeeklyHours(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	// Keyed by weekday name for readability on the admin screen.
	out := make(map[string]model.DayHours, len(hours))
	for weekday, day := range hours {
		out[weekday.String()] = day
	}
	httputil.RespondWithSuccess(c, out)
}

type dayHoursRequest struct {
	Open  string `json:"open" binding:"required"`
	Close string `json:"close" binding:"required"`
}

func (h *Handler) UpsertDayHours(c *gin.Context) {
	id, weekday, ok := h.practitionerDay(c)
	if !ok {
		return
	}

	var req dayHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	openAt, err := schedule.ParseWallClock(req.Open)
	if err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}
	closeAt, err := schedule.ParseWallClock(req.Close)
	if err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}
	if !closeAt.After(openAt) {
		httputil.RespondWithError(c, errors.Validation("close must be after open", nil))
		return
	}

	hours := model.DayHours{Open: req.Open, Close: req.Close}
	if err := h.repo.UpsertDayHours(c.Request.Context(), id, weekday, hours); err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	h.calendar.Invalidate(id)
	httputil.RespondWithSuccess(c, hours)
}

func (h *Handler) DeleteDayHours(c *gin.Context) {
	id, weekday, ok := h.practitionerDay(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteDayHours(c.Request.Context(), id, weekday); err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	h.calendar.Invalidate(id)
	httputil.RespondWithSuccess(c, gin.H{"weekday": weekday.String(), "closed": true})
}

func (h *Handler) ListClosedDates(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return
	}

	dates, err := h.repo.ListClosedDates(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	httputil.RespondWithSuccess(c, dates)
}

type closedDateRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

func (h *Handler) AddClosedDate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return
	}

	var req closedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}
	if _, err := schedule.ParseDate(req.Date); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	closed := &model.ClosedDate{
		PractitionerID: id,
		Date:           req.Date,
		Reason:         req.Reason,
	}
	if err := h.repo.AddClosedDate(c.Request.Context(), closed); err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	h.calendar.Invalidate(id)
	httputil.RespondCreated(c, closed)
}

func (h *Handler) RemoveClosedDate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return
	}

	date := c.Param("date")
	if _, err := schedule.ParseDate(date); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if err := h.repo.RemoveClosedDate(c.Request.Context(), id, date); err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("calendar store", err))
		return
	}

	h.calendar.Invalidate(id)
	httputil.RespondWithSuccess(c, gin.H{"date": date, "removed": true})
}

func (h *Handler) practitionerDay(c *gin.Context) (uuid.UUID, time.Weekday, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return uuid.Nil, 0, false
	}

	weekday, ok := parseWeekday(c.Param("weekday"))
	if !ok {
		httputil.RespondWithError(c, errors.Validation("invalid weekday", nil))
		return uuid.Nil, 0, false
	}
	return id, weekday, true
}

func parseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() || s == d.String()[:3] {
			return d, true
		}
	}
	return 0, false
}
