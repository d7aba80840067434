package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// AddMember creates the member if it does not exist yet and links it to the group.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID string, member *models.Member) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = s.now().Unix()
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.NotFound("group", groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	return s.addMember(ctx, s.db, groupID, member)
}

func (s *SQLiteStore) addMember(ctx context.Context, ex execer, groupID string, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	var bankCode, accountNo, accountName any
	if member.Bank != nil {
		bankCode, accountNo, accountName = member.Bank.BankCode, member.Bank.AccountNo, member.Bank.AccountName
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO members (id, name, bank_code, bank_account_no, bank_account_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		member.ID, member.Name, bankCode, accountNo, accountName, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO group_members (group_id, member_id, joined_at) VALUES (?, ?, ?)
		 ON CONFLICT(group_id, member_id) DO NOTHING`,
		groupID, member.ID, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}

	return nil
}

// RemoveMember unlinks a member from a group.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND member_id = ?",
		groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed rows: %w", err)
	}
	if n == 0 {
		return errs.NotFound("group member", memberID)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, bank_code, bank_account_no, bank_account_name, created_at
		 FROM members WHERE id = ?`,
		memberID,
	)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("member", memberID)
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// SetBankAccount stores the member's payout routing info.
func (s *SQLiteStore) SetBankAccount(ctx context.Context, memberID string, account models.BankAccount) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET bank_code = ?, bank_account_no = ?, bank_account_name = ? WHERE id = ?`,
		account.BankCode, account.AccountNo, account.AccountName, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return errs.NotFound("member", memberID)
	}
	return nil
}

func scanMember(sc scanner) (*models.Member, error) {
	member := &models.Member{}
	var bankCode, accountNo, accountName sql.NullString
	if err := sc.Scan(&member.ID, &member.Name, &bankCode, &accountNo, &accountName, &member.JoinedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	if bankCode.Valid || accountNo.Valid || accountName.Valid {
		member.Bank = &models.BankAccount{
			BankCode:    bankCode.String,
			AccountNo:   accountNo.String,
			AccountName: accountName.String,
		}
	}
	return member, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
