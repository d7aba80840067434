package models

// NetBalance is a member's signed position over all active debts.
// Positive means the member is owed money, negative means the member owes.
type NetBalance struct {
	MemberID string
	Amount   int64
}

// SettlementSuggestion is an advisory transfer that would reduce balances toward zero.
// It is recomputed from a balance snapshot and never persisted.
type SettlementSuggestion struct {
	// From is the member who should pay.
	From string

	// To is the member who should receive.
	To string

	// Amount is always > 0.
	Amount int64
}

// LabelTotal sums debts that share a label, typically the expense description.
type LabelTotal struct {
	Label  string
	Amount int64 // Signed from the viewer's perspective
	Count  int
}

// CounterpartSummary groups a viewer's active debts with one other member.
type CounterpartSummary struct {
	CounterpartID string

	// Owed is what the counterpart owes the viewer.
	Owed int64

	// Owing is what the viewer owes the counterpart.
	Owing int64

	// Net is Owed - Owing.
	Net int64

	// DebtCount is the number of individual debts in this relationship.
	DebtCount int

	// DebtIDs lists the debts in this relationship, in input order.
	DebtIDs []string

	// Labels breaks the relationship down by expense label.
	Labels []LabelTotal
}
