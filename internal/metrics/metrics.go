// Package metrics bundles the Prometheus collectors for provider calls,
// chart computations, the chart cache and the HTTP surface.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-jyotish/internal/vedic"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Collector implements ephem.CallRecorder and vedic.ChartRecorder.
type Collector struct {
	gatherer prometheus.Gatherer

	ProviderCalls     *prometheus.CounterVec
	ProviderDurations *prometheus.HistogramVec
	Charts            *prometheus.CounterVec
	ChartDurations    *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

// New registers the collectors against reg, defaulting to the global
// registry when nil. Registering twice on one registry reuses the existing
// collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_provider_calls_total",
		Help: "Ephemeris provider calls, labeled by operation and status.",
	}, []string{"op", "status"}), "jyotish_provider_calls_total")
	if err != nil {
		return nil, err
	}

	callDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jyotish_provider_call_duration_seconds",
		Help:    "Ephemeris provider call latency in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"op"}), "jyotish_provider_call_duration_seconds")
	if err != nil {
		return nil, err
	}

	charts, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_charts_total",
		Help: "Chart computations, labeled by result (ok or the failure kind).",
	}, []string{"result"}), "jyotish_charts_total")
	if err != nil {
		return nil, err
	}

	chartDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jyotish_chart_duration_seconds",
		Help:    "Chart computation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"result"}), "jyotish_chart_duration_seconds")
	if err != nil {
		return nil, err
	}

	cache, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_chart_cache_total",
		Help: "Chart cache lookups, labeled by hit, miss or error.",
	}, []string{"result"}), "jyotish_chart_cache_total")
	if err != nil {
		return nil, err
	}

	httpReqs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jyotish_http_requests_total",
		Help: "HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"}), "jyotish_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:          gatherer,
		ProviderCalls:     calls,
		ProviderDurations: callDurations,
		Charts:            charts,
		ChartDurations:    chartDurations,
		CacheLookups:      cache,
		HTTPRequests:      httpReqs,
	}, nil
}

// ObserveProviderCall records one ephemeris provider call.
func (c *Collector) ObserveProviderCall(op string, d time.Duration, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.ProviderCalls.WithLabelValues(op, status).Inc()
	c.ProviderDurations.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveChart records one chart computation.
func (c *Collector) ObserveChart(d time.Duration, err error) {
	if c == nil {
		return
	}
	result := ChartResult(err)
	c.Charts.WithLabelValues(result).Inc()
	c.ChartDurations.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveCache records a cache lookup outcome.
func (c *Collector) ObserveCache(result string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records a served request.
func (c *Collector) ObserveHTTP(route string, code int) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ChartResult maps a chart error to its metric label.
func ChartResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch vedic.KindOf(err) {
	case vedic.KindValidation:
		return "validation"
	case vedic.KindNotInitialized:
		return "not_initialized"
	case vedic.KindCalculation:
		return "calculation"
	default:
		return "error"
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
