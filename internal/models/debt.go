package models

// DebtStatus is the lifecycle state of a Debt.
type DebtStatus string

const (
	DebtUnsettled           DebtStatus = "UNSETTLED"
	DebtPendingConfirmation DebtStatus = "PENDING_CONFIRMATION"
	DebtSettled             DebtStatus = "SETTLED"
)

// Active reports whether debts in this status count toward balances.
func (s DebtStatus) Active() bool {
	return s == DebtUnsettled || s == DebtPendingConfirmation
}

// Valid reports whether s is a known status.
func (s DebtStatus) Valid() bool {
	return s == DebtUnsettled || s == DebtPendingConfirmation || s == DebtSettled
}

// Debt is a pairwise obligation derived from exactly one Share:
// From owes To the Amount because To paid expense ExpenseID.
// Debts are never deleted; settlement is recorded by status.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// GroupID is copied from the originating expense for group-scoped queries.
	GroupID string

	// ExpenseID is the expense this debt was derived from.
	ExpenseID string

	// From is the member who owes.
	From string

	// To is the member who is owed (the payer of the expense).
	To string

	// Amount in minor currency units. Always > 0.
	Amount int64

	Status DebtStatus

	// Version increments on every status change and guards concurrent transitions.
	Version int64

	CreatedAt int64
	UpdatedAt int64
}

// Counterpart returns the other side of the debt as seen by memberID,
// or "" when memberID is not involved.
func (d *Debt) Counterpart(memberID string) string {
	switch memberID {
	case d.From:
		return d.To
	case d.To:
		return d.From
	}
	return ""
}
