package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collabBoard/internal/models"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	limiter.getLimiter("10.0.0.1")
	limiter.getLimiter("10.0.0.2")
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	limiter.evictIdle(time.Now())

	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestMustAuthenticateMiddleware_SetsIdentity(t *testing.T) {
	router := gin.New()
	router.GET("/me", MustAuthenticateMiddleware(testSecret), func(ctx *gin.Context) {
		identity, ok := utils.GetIdentity(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, identity)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())
}

func TestMonitorMiddleware_UsesRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(MonitorMiddleware())
	router.GET("/things/:id", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, models.Response{Success: true}) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/things/:id", http.MethodGet, "200"))
	for _, path := range []string{"/things/1", "/things/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/things/:id", http.MethodGet, "200"))

	assert.Equal(t, 2.0, after-before)
}
