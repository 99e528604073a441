package practitioner

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Handler struct {
	repo repository.PractitionerRepository
}

func NewHandler(repo repository.PractitionerRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	practitioners := r.Group("/practitioners")
	{
		practitioners.POST("", h.CreatePractitioner)
		practitioners.GET("", h.ListPractitioners)
		practitioners.GET("/:id", h.GetPractitioner)
	}
}

func (h *Handler) CreatePractitioner(c *gin.Context) {
	var req model.CreatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	if _, err := time.LoadLocation(req.Timezone); err != nil {
		httputil.RespondWithError(c, errors.Validation("unknown timezone", err))
		return
	}

	p := &model.Practitioner{
		Name:     req.Name,
		Email:    req.Email,
		Timezone: req.Timezone,
		Status:   model.PractitionerStatusActive,
	}
	if err := h.repo.Create(c.Request.Context(), p); err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("practitioner store", err))
		return
	}

	httputil.RespondCreated(c, p)
}

func (h *Handler) GetPractitioner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid practitioner ID", err))
		return
	}

	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			httputil.RespondWithError(c, errors.NotFound("practitioner", err))
			return
		}
		httputil.RespondWithError(c, errors.UpstreamUnavailable("practitioner store", err))
		return
	}

	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) ListPractitioners(c *gin.Context) {
	practitioners, err := h.repo.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, errors.UpstreamUnavailable("practitioner store", err))
		return
	}

	httputil.RespondWithSuccess(c, practitioners)
}
