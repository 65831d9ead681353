// Copyright (c) 2026 Averio. All rights reserved.
// Author: nhat.vu.dev@gmail.com

/*
Package metrics provides Prometheus instrumentation for the Averio API.

It exposes a Collector for domain-level authentication events alongside an
HTTP middleware that records per-route traffic and latency. Everything is
registered on an injected registry so tests can assert on isolated
collectors.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer uses to report domain events.
type Recorder interface {
	RecordLogin(success bool)
	RecordRegistration()
	RecordVerification()
	RecordPasswordReset()
	RecordTokensRevoked(count int)
}

// Collector implements [Recorder] backed by Prometheus metrics.
type Collector struct {
	logins         *prometheus.CounterVec
	registrations  prometheus.Counter
	verifications  prometheus.Counter
	passwordResets prometheus.Counter
	tokensRevoked  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on the registry.
func NewCollector(registry prometheus.Registerer) *Collector {
	collector := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "averio_logins_total",
			Help: "Login attempts partitioned by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "averio_registrations_total",
			Help: "Accounts created.",
		}),
		verifications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "averio_email_verifications_total",
			Help: "Email addresses confirmed via signed link.",
		}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "averio_password_resets_total",
			Help: "Passwords changed through the recovery flow.",
		}),
		tokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "averio_tokens_revoked_total",
			Help: "Access tokens invalidated (logout, suspension, credential change).",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "averio_http_requests_total",
			Help: "HTTP requests partitioned by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "averio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		collector.logins,
		collector.registrations,
		collector.verifications,
		collector.passwordResets,
		collector.tokensRevoked,
		collector.httpRequests,
		collector.httpLatency,
	)

	return collector
}

// RecordLogin records a login attempt outcome.
func (collector *Collector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	collector.logins.WithLabelValues(outcome).Inc()
}

// RecordRegistration records a successful account creation.
func (collector *Collector) RecordRegistration() {
	collector.registrations.Inc()
}

// RecordVerification records a successful email confirmation.
func (collector *Collector) RecordVerification() {
	collector.verifications.Inc()
}

// RecordPasswordReset records a completed password recovery.
func (collector *Collector) RecordPasswordReset() {
	collector.passwordResets.Inc()
}

// RecordTokensRevoked records access tokens being invalidated.
func (collector *Collector) RecordTokensRevoked(count int) {
	collector.tokensRevoked.Add(float64(count))
}

// # HTTP Instrumentation

type instrumentedWriter struct {
	http.ResponseWriter
	status int
}

func (writer *instrumentedWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Instrument returns middleware recording per-route traffic and latency.
// The chi route pattern (not the raw path) is used as the label to keep
// metric cardinality bounded.
func (collector *Collector) Instrument() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrapped := &instrumentedWriter{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrapped, request)

			route := chi.RouteContext(request.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			collector.httpRequests.WithLabelValues(request.Method, route, strconv.Itoa(wrapped.status)).Inc()
			collector.httpLatency.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
