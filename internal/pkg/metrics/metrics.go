// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
	MessagesPosted       *prometheus.CounterVec
	ModerationRejections *prometheus.CounterVec
	ToggleOperations     *prometheus.CounterVec
	ContentCreated       *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campushub_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campushub_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		MessagesPosted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campushub_messages_posted_total",
				Help: "Total number of chat messages stored, by scope",
			},
			[]string{"scope"},
		),
		ModerationRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campushub_moderation_rejections_total",
				Help: "Total number of texts refused by the moderation gate",
			},
			[]string{"context"},
		),
		ToggleOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campushub_toggles_total",
				Help: "Total number of reaction and upvote toggles, by kind and result",
			},
			[]string{"kind", "result"},
		),
		ContentCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campushub_content_created_total",
				Help: "Total number of board entries created, by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m.registry.MustRegister(m.HTTPRequests)
	m.registry.MustRegister(m.HTTPDuration)
	m.registry.MustRegister(m.MessagesPosted)
	m.registry.MustRegister(m.ModerationRejections)
	m.registry.MustRegister(m.ToggleOperations)
	m.registry.MustRegister(m.ContentCreated)

	return m
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// MessagePosted counts a stored chat message
func (m *Metrics) MessagePosted(scope string) {
	if m == nil {
		return
	}
	m.MessagesPosted.WithLabelValues(scope).Inc()
}

// ModerationRejected counts a gate refusal
func (m *Metrics) ModerationRejected(context string) {
	if m == nil {
		return
	}
	m.ModerationRejections.WithLabelValues(context).Inc()
}

// Toggled counts a toggle; added reports whether the marker was switched on
func (m *Metrics) Toggled(kind string, added bool) {
	if m == nil {
		return
	}
	result := "removed"
	if added {
		result = "added"
	}
	m.ToggleOperations.WithLabelValues(kind, result).Inc()
}

// Created counts a new resource, listing, event, quiz or project
func (m *Metrics) Created(kind string) {
	if m == nil {
		return
	}
	m.ContentCreated.WithLabelValues(kind).Inc()
}
