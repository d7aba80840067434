package models

import "github.com/shopspring/decimal"

// SplitStrategy names how an expense total is divided among participants.
type SplitStrategy string

const (
	SplitEqual      SplitStrategy = "EQUAL"
	SplitExact      SplitStrategy = "EXACT"
	SplitPercentage SplitStrategy = "PERCENTAGE"
	SplitShares     SplitStrategy = "SHARES"
)

// Valid reports whether s is one of the known strategies.
func (s SplitStrategy) Valid() bool {
	switch s {
	case SplitEqual, SplitExact, SplitPercentage, SplitShares:
		return true
	}
	return false
}

// ExpenseKind separates ordinary spending from recorded settlement transfers.
type ExpenseKind string

const (
	// KindExpense is a normal shared expense.
	KindExpense ExpenseKind = "EXPENSE"

	// KindSettlement is a transfer recorded to offset balances between two members.
	KindSettlement ExpenseKind = "SETTLEMENT"
)

// Expense is one spending event.
// Amount and PayerID are immutable once the expense is committed.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string

	// PayerID is the member who paid the full amount.
	PayerID string

	// Amount is the total in minor currency units. Always > 0.
	Amount int64

	// Description is the human-readable label (e.g., "Dinner", "Hotel").
	Description string

	// BillID links the expense to its originating bill, if any.
	BillID string

	// Strategy records how the shares were computed.
	Strategy SplitStrategy

	// Kind is KindExpense unless the expense records a settlement transfer.
	Kind ExpenseKind

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// Share is one member's portion of an Expense.
// Shares of one expense sum exactly to the expense amount.
type Share struct {
	ExpenseID string
	MemberID  string
	Amount    int64

	// Percentage is set only for PERCENTAGE splits, as provenance.
	Percentage decimal.NullDecimal
}
