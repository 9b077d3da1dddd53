// Package metrics defines the custom Prometheus metrics of the movie
// collection API. HTTP request metrics come from the echoprometheus
// middleware; this package only holds domain counters.
//
// All metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movies"

// ── Auth ──────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "invalid", "conflict" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// TokenRejectionsTotal counts protected requests refused by the token check.
// Label:
//   - reason: "missing", "expired" or "invalid"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected during token verification.",
	},
	[]string{"reason"},
)

// ForbiddenTotal counts requests refused by the role gate.
// Label:
//   - route: "<METHOD> <path template>"
var ForbiddenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forbidden_total",
		Help:      "Total number of requests refused for insufficient role.",
	},
	[]string{"route"},
)

// ── Collection ────────────────────────────────────────────────────────────────

// MoviesCreatedTotal counts movies added to collections.
// Label:
//   - source: "direct" or "public_import"
var MoviesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of movies added to collections, by source.",
	},
	[]string{"source"},
)

// MoviesDeletedTotal counts deleted movies.
var MoviesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of movies deleted.",
	},
)

// ── Public listing ────────────────────────────────────────────────────────────

// TrendingCacheTotal counts trending cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var TrendingCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trending_cache_total",
		Help:      "Total number of trending cache lookups, by result.",
	},
	[]string{"result"},
)

// UpstreamRequestDuration measures calls to the public movie catalog.
// Labels:
//   - endpoint: "trending" or "latest"
//   - status: HTTP status code, or "error" when no response arrived
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the public movie catalog.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "status"},
)
