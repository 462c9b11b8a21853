package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

func TestMetrics_Operations(t *testing.T) {
	m := New()

	m.ObserveOperation("vote", nil)
	m.ObserveOperation("vote", apperror.ErrAlreadyVoted)
	m.ObserveOperation("vote", apperror.ErrAlreadyVoted)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("vote", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("vote", "ALREADY_VOTED")))
}

func TestMetrics_PhaseAndApprovals(t *testing.T) {
	m := New()

	m.PhaseAdvanced(2)
	m.ApprovalsComputed(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.phase))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.phaseTransitions))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.approvedTotal))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/phase", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `budget_http_requests_total{method="GET",route="/api/phase",status="200"} 1`))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOperation("reset", nil)
		m.ObserveHTTP("/", http.MethodGet, 200, time.Millisecond)
		m.PhaseAdvanced(1)
		m.SetPhase(1)
		m.ApprovalsComputed(1)
	})
}
