package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

func newDebt(status models.DebtStatus) models.Debt {
	return models.Debt{ID: "d1", From: "U2", To: "U1", Amount: 20000, Status: status, Version: 3}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(models.Debt) (Transition, error)
		from      models.DebtStatus
		wantTo    models.DebtStatus
		wantEvent EventType
		wantErr   bool
	}{
		{"request from unsettled", RequestPayment, models.DebtUnsettled, models.DebtPendingConfirmation, EventPaymentRequested, false},
		{"request from pending", RequestPayment, models.DebtPendingConfirmation, "", "", true},
		{"request from settled", RequestPayment, models.DebtSettled, "", "", true},
		{"confirm from pending", ConfirmPayment, models.DebtPendingConfirmation, models.DebtSettled, EventPaymentConfirmed, false},
		{"confirm from unsettled", ConfirmPayment, models.DebtUnsettled, "", "", true},
		{"confirm from settled", ConfirmPayment, models.DebtSettled, "", "", true},
		{"reject from pending", RejectPayment, models.DebtPendingConfirmation, models.DebtUnsettled, EventPaymentRejected, false},
		{"reject from unsettled", RejectPayment, models.DebtUnsettled, "", "", true},
		{"reject from settled", RejectPayment, models.DebtSettled, "", "", true},
		{"settle from unsettled", MarkSettled, models.DebtUnsettled, models.DebtSettled, EventNone, false},
		{"settle from pending", MarkSettled, models.DebtPendingConfirmation, models.DebtSettled, EventNone, false},
		{"settle unknown status", MarkSettled, models.DebtStatus("LOST"), "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDebt(tt.from)
			got, err := tt.fn(d)

			// Input is never mutated.
			assert.Equal(t, tt.from, d.Status)

			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrInvalidState)
				var ise *errs.InvalidStateError
				require.ErrorAs(t, err, &ise)
				assert.Equal(t, "d1", ise.DebtID)
				assert.Equal(t, string(tt.from), ise.Status)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Changed)
			assert.Equal(t, tt.from, got.From)
			assert.Equal(t, tt.wantTo, got.To)
			assert.Equal(t, tt.wantEvent, got.Event)
			assert.Equal(t, int64(3), got.Version)
		})
	}
}

func TestConfirmOnUnsettledLeavesStatus(t *testing.T) {
	d := newDebt(models.DebtUnsettled)
	_, err := ConfirmPayment(d)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, models.DebtUnsettled, d.Status)
}

func TestMarkSettledIsIdempotent(t *testing.T) {
	got, err := MarkSettled(newDebt(models.DebtSettled))
	require.NoError(t, err)
	assert.False(t, got.Changed)

	d := Apply(newDebt(models.DebtSettled), got, 100)
	assert.Equal(t, int64(3), d.Version)
}

func TestSettledIsTerminal(t *testing.T) {
	for _, to := range []models.DebtStatus{models.DebtUnsettled, models.DebtPendingConfirmation, models.DebtSettled} {
		assert.False(t, CanTransition(models.DebtSettled, to), "SETTLED -> %s", to)
	}
	assert.True(t, CanTransition(models.DebtUnsettled, models.DebtPendingConfirmation))
	assert.True(t, CanTransition(models.DebtUnsettled, models.DebtSettled))
	assert.False(t, CanTransition(models.DebtUnsettled, models.DebtUnsettled))
}

func TestApply(t *testing.T) {
	d := newDebt(models.DebtUnsettled)
	tr, err := RequestPayment(d)
	require.NoError(t, err)

	next := Apply(d, tr, 1700000000)
	assert.Equal(t, models.DebtPendingConfirmation, next.Status)
	assert.Equal(t, int64(4), next.Version)
	assert.Equal(t, int64(1700000000), next.UpdatedAt)
	assert.Equal(t, models.DebtUnsettled, d.Status)
}

func TestSettleBatch(t *testing.T) {
	debts := []models.Debt{
		{ID: "a", Status: models.DebtUnsettled},
		{ID: "b", Status: models.DebtSettled},
		{ID: "c", Status: models.DebtPendingConfirmation},
	}

	got, err := SettleBatch(debts)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].DebtID)
	assert.Equal(t, "c", got[1].DebtID)

	_, err = SettleBatch(append(debts, models.Debt{ID: "x", Status: "BROKEN"}))
	assert.ErrorIs(t, err, errs.ErrInvalidState)
}
