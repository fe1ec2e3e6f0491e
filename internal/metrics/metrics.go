// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics registers the Prometheus collectors of the claim vault
// server on the default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "claimvault"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "requests_total",
		Help:      "Count of processed requests by kind and outcome.",
	}, []string{"kind", "outcome"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "processor",
		Name:      "request_duration_seconds",
		Help:      "Duration of processed requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "outcome"})

	redemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "redemption",
		Name:      "redeemed_total",
		Help:      "Count of successful redemptions by schedule kind.",
	}, []string{"schedule_kind"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of HTTP requests.",
	}, []string{"method", "route", "status"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	scheduleClaimsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "schedule_claims_total",
		Help:      "Number of claims committed by an active schedule.",
	}, []string{"schedule"})
	scheduleClaimsRedeemed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "schedule_claims_redeemed",
		Help:      "Number of redeemed claims of an active schedule.",
	}, []string{"schedule"})
)

// ObserveRequest records one processed request. outcome is "ok" or the
// error kind.
func ObserveRequest(kind, outcome string, started time.Time) {
	requestsTotal.WithLabelValues(kind, outcome).Inc()
	requestDuration.WithLabelValues(kind, outcome).Observe(time.Since(started).Seconds())
}

func ObserveRedemption(scheduleKind string) {
	redemptionsTotal.WithLabelValues(scheduleKind).Inc()
}

// ObserveHTTP records a served request. route is the chi route pattern, not
// the raw path, to keep cardinality bounded.
func ObserveHTTP(method, route string, status int, started time.Time) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}

func SetScheduleClaims(schedule string, total, redeemed int) {
	scheduleClaimsTotal.WithLabelValues(schedule).Set(float64(total))
	scheduleClaimsRedeemed.WithLabelValues(schedule).Set(float64(redeemed))
}

// ResetScheduleClaims drops the series of schedules that are no longer reported.
func ResetScheduleClaims() {
	scheduleClaimsTotal.Reset()
	scheduleClaimsRedeemed.Reset()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
