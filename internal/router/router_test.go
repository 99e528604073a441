package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/handler"
	"github.com/jwalitptl/booking-api/internal/middleware"
)

type stubHandler struct {
	path string
}

func (s stubHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET(s.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func newTestRouter() *Router {
	r := NewRouter(
		stubHandler{path: "/availability"},
		stubHandler{path: "/bookings"},
		stubHandler{path: "/calendar"},
		stubHandler{path: "/practitioners"},
		handler.NewHandler(nil),
		Config{
			RateLimit:     100,
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			Timeout:       5 * time.Second,
			MetricsPrefix: "routertest",
		},
	)
	r.Setup()
	return r
}

func TestRequestMetricsReachDefaultRegistry(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
	r.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}

	// The middleware's observations must be visible to the same registry
	// promhttp serves on /health/metrics, or the metrics are decorative.
	assert.True(t, found["routertest_requests_total"], "request counter not registered")
	assert.True(t, found["routertest_request_duration_seconds"], "duration histogram not registered")

	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))
}
