package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/storage"
)

const debtColumns = "id, group_id, expense_id, from_member, to_member, amount, status, version, created_at, updated_at"

// GetDebt retrieves a debt by ID.
func (s *SQLiteStore) GetDebt(ctx context.Context, debtID string) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE id = ?",
		debtID,
	)
	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("debt", debtID)
	}
	if err != nil {
		return nil, err
	}
	return debt, nil
}

// GetDebts retrieves several debts in the order of debtIDs.
// Any missing ID fails the whole lookup with a NotFoundError.
func (s *SQLiteStore) GetDebts(ctx context.Context, debtIDs []string) ([]models.Debt, error) {
	if len(debtIDs) == 0 {
		return nil, nil
	}

	// Build the IN clause with placeholders
	query := "SELECT " + debtColumns + " FROM debts WHERE id IN (?" + repeatPlaceholder(len(debtIDs)-1) + ")"

	args := make([]any, len(debtIDs))
	for i, id := range debtIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts by IDs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]models.Debt, len(debtIDs))
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		byID[debt.ID] = *debt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	debts := make([]models.Debt, 0, len(debtIDs))
	for _, id := range debtIDs {
		debt, ok := byID[id]
		if !ok {
			return nil, errs.NotFound("debt", id)
		}
		debts = append(debts, debt)
	}
	return debts, nil
}

// ListDebtsByGroup retrieves all debts for a group in creation order.
func (s *SQLiteStore) ListDebtsByGroup(ctx context.Context, groupID string) ([]models.Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE group_id = ? ORDER BY created_at, rowid",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts by group: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	return debts, nil
}

// ApplyStatusChanges applies optimistic status updates in one transaction.
func (s *SQLiteStore) ApplyStatusChanges(ctx context.Context, changes []storage.StatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := applyStatusChanges(ctx, tx, changes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// applyStatusChanges updates each debt only if it still has the expected status
// and version. A mismatch aborts with the debt's current status.
func applyStatusChanges(ctx context.Context, tx *sql.Tx, changes []storage.StatusChange) error {
	for _, c := range changes {
		res, err := tx.ExecContext(ctx,
			`UPDATE debts SET status = ?, version = version + 1, updated_at = ?
			 WHERE id = ? AND status = ? AND version = ?`,
			string(c.To), c.UpdatedAt, c.DebtID, string(c.From), c.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update debt status: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check updated rows: %w", err)
		}
		if n == 1 {
			continue
		}

		var current string
		err = tx.QueryRowContext(ctx, "SELECT status FROM debts WHERE id = ?", c.DebtID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("debt", c.DebtID)
		}
		if err != nil {
			return fmt.Errorf("failed to check debt status: %w", err)
		}
		return &errs.InvalidStateError{
			DebtID: c.DebtID,
			Action: fmt.Sprintf("move to %s", c.To),
			Status: current,
		}
	}
	return nil
}

func scanDebt(sc scanner) (*models.Debt, error) {
	debt := &models.Debt{}
	var status string
	err := sc.Scan(&debt.ID, &debt.GroupID, &debt.ExpenseID, &debt.From, &debt.To,
		&debt.Amount, &status, &debt.Version, &debt.CreatedAt, &debt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan debt: %w", err)
	}
	debt.Status = models.DebtStatus(status)
	return debt, nil
}
