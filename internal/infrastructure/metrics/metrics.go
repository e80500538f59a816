// Package metrics exposes Prometheus counters for gateway outcomes and upstream latency.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tryon-gateway/internal/domain/entities"
	"tryon-gateway/internal/domain/repositories"
)

const namespace = "tryon_gateway"

// Collector owns its registry so tests and multiple servers never collide.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	shapesTotal      *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Gateway requests by outcome",
			},
			[]string{"outcome"},
		),
		shapesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "response_shapes_total",
				Help:      "Upstream payload layouts the image was extracted from",
			},
			[]string{"shape"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream generation call duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
		upstreamTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_requests_total",
				Help:      "Upstream generation calls by model and status code",
			},
			[]string{"model", "code"},
		),
	}
}

func (c *Collector) RecordOutcome(outcome string) {
	c.requestsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordShape(shape string) {
	c.shapesTotal.WithLabelValues(shape).Inc()
}

// RecordUpstream tracks one upstream call; code is "error" for transport failures.
func (c *Collector) RecordUpstream(model, code string, duration time.Duration) {
	c.upstreamDuration.WithLabelValues(model).Observe(duration.Seconds())
	c.upstreamTotal.WithLabelValues(model, code).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// InstrumentUpstream wraps an upstream client so every Generate call is timed.
func InstrumentUpstream(next repositories.UpstreamClient, c *Collector) repositories.UpstreamClient {
	return &instrumentedUpstream{next: next, collector: c}
}

type instrumentedUpstream struct {
	next      repositories.UpstreamClient
	collector *Collector
}

func (u *instrumentedUpstream) Generate(ctx context.Context, request *entities.TryOnRequest) (*entities.UpstreamResponse, error) {
	start := time.Now()
	resp, err := u.next.Generate(ctx, request)

	code := "error"
	if err == nil && resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	u.collector.RecordUpstream(u.next.Model(), code, time.Since(start))

	return resp, err
}

func (u *instrumentedUpstream) Model() string {
	return u.next.Model()
}

func (u *instrumentedUpstream) Close() error {
	return u.next.Close()
}
