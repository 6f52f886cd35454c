package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpH "github.com/cownect/cownect-backend/internal/http/handlers"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

func TestRouterServesPublicRoutesAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cat, err := catalog.Load()
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		Log:           logger.Nop(),
		Metrics:       observability.NewMetrics(prometheus.NewRegistry()),
		CareerHandler: httpH.NewCareerHandler(logger.Nop(), cat),
		HealthHandler: httpH.NewHealthHandler(nil),
	})

	for _, path := range []string{"/healthcheck", "/api/careers", "/api/careers/AR%2FVR%20Developer"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cownect_api_requests_total{method="GET",route="/api/careers/:name",status="200"} 1`)
}
