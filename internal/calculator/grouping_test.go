package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/models"
)

func TestGroupByCounterpart(t *testing.T) {
	labels := map[string]string{"e1": "Dinner", "e2": "Hotel", "e3": "Taxi"}
	debts := []models.Debt{
		{ID: "d1", ExpenseID: "e1", From: "B", To: "me", Amount: 100, Status: models.DebtUnsettled},
		{ID: "d2", ExpenseID: "e2", From: "B", To: "me", Amount: 300, Status: models.DebtPendingConfirmation},
		{ID: "d3", ExpenseID: "e3", From: "me", To: "B", Amount: 50, Status: models.DebtUnsettled},
		{ID: "d4", ExpenseID: "e1", From: "me", To: "C", Amount: 1000, Status: models.DebtUnsettled},
		{ID: "d5", ExpenseID: "e1", From: "C", To: "B", Amount: 70, Status: models.DebtUnsettled},
		{ID: "d6", ExpenseID: "e2", From: "B", To: "me", Amount: 999, Status: models.DebtSettled},
	}

	got := GroupByCounterpart(debts, "me", func(d models.Debt) string { return labels[d.ExpenseID] })
	require.Len(t, got, 2)

	assert.Equal(t, "C", got[0].CounterpartID)
	assert.Equal(t, int64(-1000), got[0].Net)
	assert.Equal(t, int64(1000), got[0].Owing)
	assert.Equal(t, 1, got[0].DebtCount)

	b := got[1]
	assert.Equal(t, "B", b.CounterpartID)
	assert.Equal(t, int64(400), b.Owed)
	assert.Equal(t, int64(50), b.Owing)
	assert.Equal(t, int64(350), b.Net)
	assert.Equal(t, 3, b.DebtCount)
	assert.Equal(t, []string{"d1", "d2", "d3"}, b.DebtIDs)
	assert.Equal(t, []models.LabelTotal{
		{Label: "Dinner", Amount: 100, Count: 1},
		{Label: "Hotel", Amount: 300, Count: 1},
		{Label: "Taxi", Amount: -50, Count: 1},
	}, b.Labels)
}

func TestGroupByCounterpartWithoutLabels(t *testing.T) {
	got := GroupByCounterpart([]models.Debt{
		{ID: "d1", From: "A", To: "me", Amount: 10, Status: models.DebtUnsettled},
		{ID: "d2", From: "A", To: "me", Amount: 5, Status: models.DebtUnsettled},
	}, "me", nil)

	require.Len(t, got, 1)
	assert.Equal(t, []models.LabelTotal{{Label: "", Amount: 15, Count: 2}}, got[0].Labels)
}
