// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"github.com/mmynk/splitfair/internal/models"
)

// StatusChange is one optimistic debt status update.
// It applies only if the debt still has status From at Version.
type StatusChange struct {
	DebtID    string
	From      models.DebtStatus
	To        models.DebtStatus
	Version   int64
	UpdatedAt int64
}

// ExpenseCommit is everything written when an expense is created.
// Stores must apply it atomically: all of it or none of it.
type ExpenseCommit struct {
	Expense *models.Expense
	Shares  []models.Share
	Debts   []models.Debt

	// Settle lists status changes applied in the same transaction, used when a
	// new settlement expense replaces older debts.
	Settle []StatusChange
}

// Store defines the persistence operations the ledger needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Missing records are reported as errs.NotFoundError. A StatusChange whose
// expected status or version no longer matches is reported as errs.InvalidStateError.
type Store interface {
	// CreateGroup persists a group and its initial members.
	// The group ID and CreatedAt are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups without members, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddMember creates the member if needed and links it to the group.
	AddMember(ctx context.Context, groupID string, member *models.Member) error

	// RemoveMember unlinks a member from a group. Debts are kept.
	RemoveMember(ctx context.Context, groupID, memberID string) error

	// GetMember retrieves one member, including bank info.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// SetBankAccount stores the member's payout routing info.
	SetBankAccount(ctx context.Context, memberID string, account models.BankAccount) error

	// CommitExpense atomically writes an expense, its shares, its debts and any status changes.
	CommitExpense(ctx context.Context, commit *ExpenseCommit) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListShares retrieves the shares of one expense.
	ListShares(ctx context.Context, expenseID string) ([]models.Share, error)

	// GetDebt retrieves a debt by ID.
	GetDebt(ctx context.Context, debtID string) (*models.Debt, error)

	// GetDebts retrieves several debts in the requested order.
	// Any missing ID fails the whole call.
	GetDebts(ctx context.Context, debtIDs []string) ([]models.Debt, error)

	// ListDebtsByGroup retrieves every debt of a group, in creation order.
	ListDebtsByGroup(ctx context.Context, groupID string) ([]models.Debt, error)

	// ApplyStatusChanges atomically applies optimistic status updates.
	ApplyStatusChanges(ctx context.Context, changes []StatusChange) error

	// Close releases any resources held by the store.
	Close() error
}
