// Package metrics exposes the application's Prometheus collectors. All
// collectors are registered on the default registry via promauto and
// served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesCreated counts committed expenses.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_expenses_created_total",
		Help: "Number of expenses committed, across all groups.",
	})

	// PaymentsRecorded counts payment state transitions by resulting status.
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_payments_total",
		Help: "Number of payment transitions, labeled by resulting status.",
	}, []string{"status"})

	// PlansComputed counts settlement plan computations. Plans are rebuilt
	// from scratch on every request, so this also tracks read load on the
	// ledger.
	PlansComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_settlement_plans_computed_total",
		Help: "Number of settlement plans computed.",
	})
)
