package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	return s.count, s.err
}

func runLimited(t *testing.T, limiter *Limiter) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", limiter.Middleware("ping"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	return w
}

func TestLimiter_UnderLimit(t *testing.T) {
	limiter := New(&stubCounter{count: 3}, time.Minute, 10)
	w := runLimited(t, limiter)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLimiter_OverLimit(t *testing.T) {
	limiter := New(&stubCounter{count: 11}, time.Minute, 10)
	w := runLimited(t, limiter)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLimiter_CounterFailureLetsThrough(t *testing.T) {
	limiter := New(&stubCounter{err: errors.New("redis down")}, time.Minute, 10)
	w := runLimited(t, limiter)
	assert.Equal(t, http.StatusOK, w.Code)
}
