package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

const namespace = "daylight"

// Pass results.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics holds every collector registered by the daemon.
type Metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	failures      *prometheus.CounterVec
	clamps        *prometheus.CounterVec
	switches      *prometheus.CounterVec
	nightMode     prometheus.Gauge
	lastGenerated prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_passes_total",
			Help:      "Scheduling passes by result.",
		}, []string{"result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_failures_total",
			Help:      "Failed scheduling passes by reason.",
		}, []string{"reason"}),
		clamps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transition_clamps_total",
			Help:      "Phases whose transition time was shrunk to fit.",
		}, []string{"phase"}),
		switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appearance_switches_total",
			Help:      "Light/dark appearance changes applied to the desktop.",
		}, []string{"appearance"}),
		nightMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "night_mode",
			Help:      "1 when night-mode is enabled.",
		}),
		lastGenerated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful scheduling pass.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.passes, m.failures, m.clamps, m.switches, m.nightMode, m.lastGenerated,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// PassSucceeded records a successful pass and the phases that were clamped.
func (m *Metrics) PassSucceeded(clamped []schedule.Phase) {
	m.passes.WithLabelValues(ResultOK).Inc()
	for _, p := range clamped {
		m.clamps.WithLabelValues(p.String()).Inc()
	}
	m.lastGenerated.SetToCurrentTime()
}

// PassFailed records a failed pass.
func (m *Metrics) PassFailed(reason string) {
	m.passes.WithLabelValues(ResultFailed).Inc()
	m.failures.WithLabelValues(reason).Inc()
}

// AppearanceSwitched records an applied "light" or "dark" appearance.
func (m *Metrics) AppearanceSwitched(appearance string) {
	m.switches.WithLabelValues(appearance).Inc()
}

// SetNightMode mirrors the night-mode flag.
func (m *Metrics) SetNightMode(on bool) {
	if on {
		m.nightMode.Set(1)
		return
	}
	m.nightMode.Set(0)
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Middleware records request counts and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(sw.status)

		m.httpRequests.WithLabelValues(r.Method, route, status).Inc()
		m.httpDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
