// Package models defines the normalized domain values for the SplitFair ledger.
//
// # Stored Models
//
//   - Group, Member, BankAccount: who takes part in a ledger
//   - Expense, Share: one spending event and each member's portion of it
//   - Debt: a pairwise obligation derived from one Share
//
// # Derived Models
//
//   - NetBalance: signed per-member sum of active debts (never persisted)
//   - SettlementSuggestion: advisory transfer produced by the settlement planner
//   - CounterpartSummary: per-partner grouping of debts for presentation
//
// # Conventions
//
// 1. **Integer money**: every amount is an int64 in minor currency units (đồng).
// 2. **IDs, not pointers**: relationships are expressed as ID strings.
// 3. **One shape**: collaborator DTOs are converted to these types once, at the
// boundary, so the ledger core never branches on input shape.
package models
