// Package metrics defines and registers all custom Prometheus metrics for the
// BlogSphere API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package load;
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blogsphere"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register, login and refresh outcomes.
// Labels:
//   - operation: "register", "login" or "refresh"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// TokensIssuedTotal counts signed bearer tokens.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by kind.",
	},
	[]string{"kind"},
)

// SessionRejectionsTotal counts bearer tokens the session resolver refused.
// Label:
//   - reason: "missing_token", "invalid_token", "wrong_kind",
//     "unknown_identity" or "insufficient_scope"
var SessionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_rejections_total",
		Help:      "Total number of requests rejected while resolving the bearer token.",
	},
	[]string{"reason"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostViewsTotal counts post reads.
// Label:
//   - result: "recorded" (new view stored) or "deduplicated" (same reader inside the window)
var PostViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_views_total",
		Help:      "Total number of post reads, labelled by whether a view was recorded.",
	},
	[]string{"result"},
)

// ── Activity trail metrics ────────────────────────────────────────────────────

// ActivityQueueDepth tracks events waiting in each activity worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events discarded because a worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped due to a full queue.",
	},
)

// ActivityWriteDuration measures how long the sink takes to store one event.
// Label:
//   - result: "ok" or "error"
var ActivityWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_write_duration_seconds",
		Help:      "Duration of writing one activity event to the sink.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// Result label helpers.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)
