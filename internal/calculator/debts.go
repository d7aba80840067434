package calculator

import (
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

// DeriveDebts turns an expense and its shares into pairwise debts.
//
// Every share held by someone other than the payer with a positive amount becomes
// one UNSETTLED debt owed to the payer. The payer's own share never produces a
// debt. Debts are not merged across expenses, so each stays traceable to the
// expense it came from. IDs are left empty for the caller to assign.
func DeriveDebts(expense models.Expense, shares []models.Share) ([]models.Debt, error) {
	if expense.PayerID == "" {
		return nil, errs.Validation("payer", "expense %s has no payer", expense.ID)
	}

	seen := make(map[string]bool, len(shares))
	debts := make([]models.Debt, 0, len(shares))
	for _, share := range shares {
		if share.ExpenseID != "" && share.ExpenseID != expense.ID {
			return nil, errs.Validation("share", "share of %s belongs to expense %s, not %s",
				share.MemberID, share.ExpenseID, expense.ID)
		}
		if seen[share.MemberID] {
			return nil, errs.Validation("share", "member %s has more than one share", share.MemberID)
		}
		seen[share.MemberID] = true

		if share.Amount < 0 {
			return nil, errs.Validation("share", "member %s has negative amount %d", share.MemberID, share.Amount)
		}
		if share.MemberID == expense.PayerID || share.Amount == 0 {
			continue
		}

		debts = append(debts, models.Debt{
			GroupID:   expense.GroupID,
			ExpenseID: expense.ID,
			From:      share.MemberID,
			To:        expense.PayerID,
			Amount:    share.Amount,
			Status:    models.DebtUnsettled,
			Version:   1,
			CreatedAt: expense.CreatedAt,
			UpdatedAt: expense.CreatedAt,
		})
	}

	return debts, nil
}

// SumShares returns the total of share amounts.
func SumShares(shares []models.Share) int64 {
	var sum int64
	for _, s := range shares {
		sum += s.Amount
	}
	return sum
}
