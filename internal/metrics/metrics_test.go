package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ExpenseCreated("EQUAL", "EXPENSE", 2)
	m.ExpenseCreated("EQUAL", "EXPENSE", 1)
	m.SplitRejected("PERCENTAGE")
	m.Transition("UNSETTLED", "PENDING_CONFIRMATION")
	m.Suggested(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExpensesCreated.WithLabelValues("EQUAL", "EXPENSE")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DebtsDerived))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SplitRejections.WithLabelValues("PERCENTAGE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DebtTransitions.WithLabelValues("UNSETTLED", "PENDING_CONFIRMATION")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SuggestionsIssued))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ExpenseCreated("EQUAL", "EXPENSE", 1)
	m.SplitRejected("EXACT")
	m.Transition("a", "b")
	m.Suggested(1)
}
