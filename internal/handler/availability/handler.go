package availability

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/schedule"
	"github.com/jwalitptl/booking-api/internal/service/availability"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

// availabilityResponse renders slot instants as zero-padded 24-hour local
// wall-clock strings; the date is never converted out of the practitioner's
// timezone.
type availabilityResponse struct {
	Date           string          `json:"date"`
	IsBusinessDay  bool            `json:"is_business_day"`
	BusinessHours  *model.DayHours `json:"business_hours,omitempty"`
	AvailableSlots []string        `json:"available_slots"`
	BookedSlots    []string        `json:"booked_slots"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	practitionerID, err := uuid.Parse(c.Query("practitioner_id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner_id", err))
		return
	}

	req := &model.AvailabilityRequest{
		PractitionerID: practitionerID,
		Date:           c.Query("date"),
		ServiceType:    model.ServiceType(c.Query("service_type")),
	}

	day, err := h.service.ComputeAvailability(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, availabilityResponse{
		Date:           day.Date,
		IsBusinessDay:  day.IsBusinessDay,
		BusinessHours:  day.BusinessHours,
		AvailableSlots: startTimes(day.AvailableSlots),
		BookedSlots:    startTimes(day.BookedSlots),
	})
}

func startTimes(slots []model.Slot) []string {
	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, schedule.FormatWallClock(slot.Start))
	}
	return times
}
