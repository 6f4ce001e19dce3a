package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	salesProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "sales_processed_total",
			Help:      "Total sale notifications handled by the intake pipeline.",
		},
		[]string{"outcome"}, // "processed", "parse_error"
	)

	reportGenerationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "reports_generated_total",
			Help:      "Total audit reports produced.",
		},
		[]string{"mode"}, // "model", "fallback"
	)

	emailDeliveryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "email_deliveries_total",
			Help:      "Total audit email delivery attempts.",
		},
		[]string{"status"}, // "delivered", "failed"
	)

	ledgerWriteCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "ledger_writes_total",
			Help:      "Total sale ledger upserts.",
		},
		[]string{"status"}, // "ok", "failed"
	)

	eventPublishCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Name:      "events_published_total",
			Help:      "Total sale.recorded events published to NATS.",
		},
		[]string{"status"},
	)

	pipelineDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fulfillment",
			Name:      "pipeline_duration_seconds",
			Help:      "End to end duration of sale notification processing.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	providerRequestDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fulfillment",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of HTTP requests to external providers.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"}, // "llm", "email"
	)
)
