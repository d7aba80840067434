// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitfair"

// Metrics holds the ledger collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExpensesCreated   *prometheus.CounterVec
	SplitRejections   *prometheus.CounterVec
	DebtsDerived      prometheus.Counter
	DebtTransitions   *prometheus.CounterVec
	SuggestionsIssued prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExpensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses committed, by split strategy and kind.",
		}, []string{"strategy", "kind"}),
		SplitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_rejections_total",
			Help:      "Expense splits rejected because shares did not reconcile with the total.",
		}, []string{"strategy"}),
		DebtsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_derived_total",
			Help:      "Debts created from expense shares.",
		}),
		DebtTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debt_transitions_total",
			Help:      "Debt status changes, by source and target status.",
		}, []string{"from", "to"}),
		SuggestionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_suggestions_total",
			Help:      "Settlement transfers suggested by the planner.",
		}),
	}

	reg.MustRegister(
		m.ExpensesCreated,
		m.SplitRejections,
		m.DebtsDerived,
		m.DebtTransitions,
		m.SuggestionsIssued,
	)
	return m
}

// ExpenseCreated records a committed expense and the debts it produced.
func (m *Metrics) ExpenseCreated(strategy, kind string, debts int) {
	if m == nil {
		return
	}
	m.ExpensesCreated.WithLabelValues(strategy, kind).Inc()
	m.DebtsDerived.Add(float64(debts))
}

// SplitRejected records a split that failed reconciliation.
func (m *Metrics) SplitRejected(strategy string) {
	if m == nil {
		return
	}
	m.SplitRejections.WithLabelValues(strategy).Inc()
}

// Transition records one debt status change.
func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.DebtTransitions.WithLabelValues(from, to).Inc()
}

// Suggested records how many transfers a plan contained.
func (m *Metrics) Suggested(n int) {
	if m == nil {
		return
	}
	m.SuggestionsIssued.Add(float64(n))
}
