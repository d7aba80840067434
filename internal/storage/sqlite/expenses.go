package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/storage"
)

const expenseColumns = "id, group_id, payer_id, amount, description, bill_id, strategy, kind, created_at"

// CommitExpense persists an expense, its shares, its debts and any status changes
// in one transaction. Nothing is written if any step fails.
func (s *SQLiteStore) CommitExpense(ctx context.Context, commit *storage.ExpenseCommit) error {
	expense := commit.Expense
	if expense == nil {
		return errs.Validation("expense", "missing")
	}

	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}
	if expense.Kind == "" {
		expense.Kind = models.KindExpense
	}
	if expense.Description == "" {
		expense.Description = generateDescription(expense)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var billID any
	if expense.BillID != "" {
		billID = expense.BillID
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.PayerID, expense.Amount, expense.Description,
		billID, string(expense.Strategy), string(expense.Kind), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range commit.Shares {
		share := &commit.Shares[i]
		share.ExpenseID = expense.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO shares (expense_id, member_id, amount, percentage) VALUES (?, ?, ?, ?)",
			share.ExpenseID, share.MemberID, share.Amount, share.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i := range commit.Debts {
		debt := &commit.Debts[i]
		if debt.ID == "" {
			debt.ID = uuid.New().String()
		}
		debt.ExpenseID = expense.ID
		debt.GroupID = expense.GroupID
		if debt.Version == 0 {
			debt.Version = 1
		}
		if debt.CreatedAt == 0 {
			debt.CreatedAt = expense.CreatedAt
		}
		if debt.UpdatedAt == 0 {
			debt.UpdatedAt = debt.CreatedAt
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO debts (id, group_id, expense_id, from_member, to_member, amount, status, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			debt.ID, debt.GroupID, debt.ExpenseID, debt.From, debt.To, debt.Amount,
			string(debt.Status), debt.Version, debt.CreatedAt, debt.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	if err := applyStatusChanges(ctx, tx, commit.Settle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListShares retrieves the shares of an expense ordered by member.
func (s *SQLiteStore) ListShares(ctx context.Context, expenseID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, member_id, amount, percentage FROM shares WHERE expense_id = ? ORDER BY member_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.ExpenseID, &share.MemberID, &share.Amount, &share.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}

func scanExpense(sc scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var billID sql.NullString
	var strategy, kind string
	err := sc.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Amount,
		&expense.Description, &billID, &strategy, &kind, &expense.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	expense.BillID = billID.String
	expense.Strategy = models.SplitStrategy(strategy)
	expense.Kind = models.ExpenseKind(kind)
	return expense, nil
}
