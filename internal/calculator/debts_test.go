package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

func TestDeriveDebts(t *testing.T) {
	expense := models.Expense{ID: "e1", GroupID: "g1", PayerID: "U1", Amount: 60000, CreatedAt: 1700000000}
	shares := []models.Share{
		{ExpenseID: "e1", MemberID: "U1", Amount: 20000},
		{ExpenseID: "e1", MemberID: "U2", Amount: 20000},
		{ExpenseID: "e1", MemberID: "U3", Amount: 20000},
	}

	debts, err := DeriveDebts(expense, shares)
	require.NoError(t, err)
	require.Len(t, debts, 2)

	assert.Equal(t, "U2", debts[0].From)
	assert.Equal(t, "U3", debts[1].From)
	for _, d := range debts {
		assert.Equal(t, "U1", d.To)
		assert.Equal(t, int64(20000), d.Amount)
		assert.Equal(t, "e1", d.ExpenseID)
		assert.Equal(t, "g1", d.GroupID)
		assert.Equal(t, models.DebtUnsettled, d.Status)
		assert.Equal(t, int64(1), d.Version)
		assert.NotEqual(t, d.From, d.To)
	}
}

func TestDeriveDebtsSkipsPayerAndZeroShares(t *testing.T) {
	expense := models.Expense{ID: "e1", PayerID: "A", Amount: 100}
	shares := []models.Share{
		{MemberID: "A", Amount: 100},
		{MemberID: "B", Amount: 0},
	}

	debts, err := DeriveDebts(expense, shares)
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestDeriveDebtsPayerNotAParticipant(t *testing.T) {
	expense := models.Expense{ID: "e1", PayerID: "P", Amount: 300}
	shares := []models.Share{
		{MemberID: "A", Amount: 100},
		{MemberID: "B", Amount: 200},
	}

	debts, err := DeriveDebts(expense, shares)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	assert.Equal(t, SumShares(shares), debts[0].Amount+debts[1].Amount)
}

func TestDeriveDebtsRejectsInconsistentShares(t *testing.T) {
	expense := models.Expense{ID: "e1", PayerID: "A", Amount: 100}

	tests := []struct {
		name    string
		expense models.Expense
		shares  []models.Share
	}{
		{"foreign expense", expense, []models.Share{{ExpenseID: "e2", MemberID: "B", Amount: 100}}},
		{"duplicate member", expense, []models.Share{{MemberID: "B", Amount: 50}, {MemberID: "B", Amount: 50}}},
		{"negative amount", expense, []models.Share{{MemberID: "B", Amount: -1}}},
		{"missing payer", models.Expense{ID: "e1", Amount: 100}, []models.Share{{MemberID: "B", Amount: 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveDebts(tt.expense, tt.shares)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}
