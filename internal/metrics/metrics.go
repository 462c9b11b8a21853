// Package metrics собирает метрики HTTP и процесса бюджетирования в отдельном реестре.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
)

const namespace = "budget"

// Metrics все методы безопасны для nil-получателя, тогда ничего не пишется.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	operations       *prometheus.CounterVec
	phase            prometheus.Gauge
	phaseTransitions prometheus.Counter
	approvalRuns     prometheus.Counter
	approvedTotal    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Workflow operations by name and result code.",
		}, []string{"operation", "code"}),
		phase: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase",
			Help:      "Current phase of the budgeting round.",
		}),
		phaseTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Successful phase advances.",
		}),
		approvalRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_runs_total",
			Help:      "Completed approval computations.",
		}),
		approvedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "approved_proposals",
			Help:      "Proposals approved by the last computation.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.operations,
		m.phase,
		m.phaseTransitions,
		m.approvalRuns,
		m.approvedTotal,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveOperation считает вызов операции процесса с кодом результата (ok или код ошибки).
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	code := "ok"
	if err != nil {
		code = string(apperror.CodeOf(err))
	}
	m.operations.WithLabelValues(operation, code).Inc()
}

func (m *Metrics) SetPhase(phase int) {
	if m == nil {
		return
	}
	m.phase.Set(float64(phase))
}

func (m *Metrics) PhaseAdvanced(phase int) {
	if m == nil {
		return
	}
	m.phaseTransitions.Inc()
	m.phase.Set(float64(phase))
}

func (m *Metrics) ApprovalsComputed(approved int) {
	if m == nil {
		return
	}
	m.approvalRuns.Inc()
	m.approvedTotal.Set(float64(approved))
}
