// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register/login/logout outcomes.
// Labels:
//   - action: "register", "login" or "logout"
//   - result: "success", "conflict", "invalid_credentials", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts by action and result.",
	},
	[]string{"action", "result"},
)

// HashDuration measures bcrypt work on the hasher pool.
// Label:
//   - op: "hash" or "compare"
var HashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_duration_seconds",
		Help:      "Duration of bcrypt operations executed by the hasher pool.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
	},
	[]string{"op"},
)

// HashQueueDepth tracks jobs waiting for a hasher worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of bcrypt jobs waiting for a worker.",
	},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// ServicesCreatedTotal counts newly posted services.
// Label:
//   - category: the category name given by the poster
var ServicesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "services_created_total",
		Help:      "Total number of services posted, by category.",
	},
	[]string{"category"},
)

// StatusTransitionsTotal counts accepted lifecycle transitions.
// Labels:
//   - entity: "service", "application" or "report"
//   - from, to: the statuses involved
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status transitions applied, by entity.",
	},
	[]string{"entity", "from", "to"},
)

// ReviewsCreatedTotal counts submitted reviews.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews submitted.",
	},
)

// WSConnections tracks open notification streams.
var WSConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Current number of open notification websocket connections.",
	},
)
