package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg, "survivor")

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "RecomputeScoring", "ScoringService")
	m.RecordOperationAttempt(ctx, "RecomputeScoring", "ScoringService")
	m.RecordOperationSuccess(ctx, "RecomputeScoring", "ScoringService")
	m.RecordOperationFailure(ctx, "RecomputeScoring", "ScoringService")
	m.RecordOperationDuration(ctx, "RecomputeScoring", "ScoringService", 20*time.Millisecond)
	m.RecordStandingsWritten(ctx, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("ScoringService", "RecomputeScoring")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("ScoringService", "RecomputeScoring")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("ScoringService", "RecomputeScoring")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.standings))

	// a second instance on the same registry reuses the collectors
	again := NewPrometheusMetrics(reg, "survivor")
	again.RecordStandingsWritten(ctx, 1)
	assert.Equal(t, 8.0, testutil.ToFloat64(m.standings))
}

func TestOpsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusMetrics(reg, "survivor")

	healthy := NewOpsRouter(reg, map[string]HealthCheck{
		"db": func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	unhealthy := NewOpsRouter(reg, map[string]HealthCheck{
		"db": func(context.Context) error { return errors.New("connection refused") },
	})
	rec = httptest.NewRecorder()
	unhealthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "connection refused"))
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production")
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger = newLogger(&buf, "development")
	logger.Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"service":"survivor-pool"`)
}
