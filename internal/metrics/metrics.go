// Package metrics declares the Prometheus instruments the engine exposes.
// Instruments register on the default registry at init and are served by
// the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_generations_total",
			Help: "Total number of generation requests by terminal state",
		},
		[]string{"state"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "genforge_generation_duration_seconds",
			Help:    "End to end duration of generation requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_provider_attempts_total",
			Help: "Total number of provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genforge_provider_attempt_duration_seconds",
			Help:    "Duration of individual provider calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider"},
	)

	CreditsCharged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_credits_charged_total",
			Help: "Total credits committed against accounts",
		},
	)

	CreditsRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genforge_credits_refunded_total",
			Help: "Total credits refunded to accounts",
		},
	)

	ValidationIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_validation_issues_total",
			Help: "Total validation issues flagged on generated text by issue kind",
		},
		[]string{"issue"},
	)

	VariantOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genforge_variant_outcomes_total",
			Help: "Total image variant outcomes by platform and result",
		},
		[]string{"platform", "outcome"},
	)
)
