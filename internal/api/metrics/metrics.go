// Package metrics defines the custom Prometheus collectors for the CRM API.
// It is the single source of truth for metric names, labels, and help
// strings. Collectors register themselves with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// LeadsCreatedTotal counts newly created leads by their initial status.
var LeadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_created_total",
		Help:      "Total number of leads created, by initial status.",
	},
	[]string{"status"},
)

// StatusTransitionsTotal counts kanban status transitions.
// Labels:
//   - from: the previous status
//   - to: the new status
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_status_transitions_total",
		Help:      "Total number of lead status transitions, by from/to status.",
	},
	[]string{"from", "to"},
)

// NotificationsDispatchedTotal counts notifications created by the
// dispatcher, labelled by the triggering event kind
// ("lead_assigned" or "status_changed").
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notifications created from domain events.",
	},
	[]string{"event"},
)

// NotificationsReadTotal counts notifications marked read, including those
// flipped by read-all.
var NotificationsReadTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_read_total",
		Help:      "Total number of notifications marked as read.",
	},
)

// EventsQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventErrorsTotal counts domain events whose notification dispatch failed.
var EventErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_errors_total",
		Help:      "Total number of domain events that failed notification dispatch.",
	},
	[]string{"reason"},
)
