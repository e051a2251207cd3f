// Package metrics defines and registers all custom Prometheus metrics for the
// clinic console gateway. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// SessionsActive tracks the number of sessions committed and not yet logged
// out on this instance.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Sessions committed by this instance and not yet logged out.",
	},
)

// PermissionDenialsTotal counts enforcement point denials.
// Labels:
//   - gate: "route", "module", or "capability"
//   - subject: the denied module or capability name ("" for route denials)
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of requests denied by an enforcement point.",
	},
	[]string{"gate", "subject"},
)

// UpstreamRequestDuration measures round trips to the remote clinic API.
// Label:
//   - path: the upstream path called (e.g. "/auth/login")
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of authentication calls to the remote clinic API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"path"},
)
