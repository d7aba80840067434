package models

// Member is an identity participating in a group.
// The ledger core never mutates members; it only refers to them by ID.
type Member struct {
	// ID is the unique identifier for the member (UUID format or caller-supplied).
	ID string

	// Name is the display name.
	Name string

	// Bank holds payout routing info used when someone requests to pay this member.
	// Nil when the member never configured one.
	Bank *BankAccount

	// JoinedAt is the Unix timestamp when the member joined the group.
	JoinedAt int64
}

// BankAccount is the routing information needed to build a payment instruction.
type BankAccount struct {
	// BankCode is the short bank identifier (e.g., "VCB", "TCB", "MB").
	BankCode string

	// AccountNo is the account number.
	AccountNo string

	// AccountName is the account holder name, upper-cased as banks print it.
	AccountName string
}

// Complete reports whether every field needed for a transfer is present.
func (b *BankAccount) Complete() bool {
	return b != nil && b.BankCode != "" && b.AccountNo != "" && b.AccountName != ""
}
