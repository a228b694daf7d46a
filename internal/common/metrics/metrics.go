// Package metrics exposes the prometheus instruments for the console
// service, served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_gateway_requests_total",
			Help: "Total requests issued to the review backend",
		},
		[]string{"operation", "outcome"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "console_gateway_request_duration_seconds",
			Help: "Duration of review backend calls in seconds",
		},
		[]string{"operation"},
	)

	WorkflowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_workflow_transitions_total",
			Help: "Total workflow state transitions by event",
		},
		[]string{"event"},
	)

	AssistantMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_assistant_messages_total",
			Help: "Total chat assistant exchanges",
		},
		[]string{"outcome"},
	)

	AuditEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_audit_events_published_total",
			Help: "Total operator decision events published",
		},
		[]string{"outcome"},
	)
)
