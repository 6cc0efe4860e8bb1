// Package metrics defines and registers all custom Prometheus metrics for the
// fleet console API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto; the HTTP
// /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleet_console"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts token verification checks by outcome.
// Label:
//   - result: "valid", "missing", or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer-token verification checks, labelled by result.",
	},
	[]string{"result"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// UserMutationsTotal counts user-directory mutations.
// Labels:
//   - op: "create", "update", or "delete"
//   - result: "success", "validation", "conflict", "not_found", or "error"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user create/update/delete operations, labelled by op and result.",
	},
	[]string{"op", "result"},
)

// ── Fleet metrics ─────────────────────────────────────────────────────────────

// RegisterFleetGauge registers a gauge that reports the number of vehicles per
// status, evaluated from the feed at scrape time.
func RegisterFleetGauge(status string, count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "fleet_vehicles",
			Help:        "Current number of vehicles in the simulated feed, by status.",
			ConstLabels: prometheus.Labels{"status": status},
		},
		func() float64 { return float64(count()) },
	)
}
