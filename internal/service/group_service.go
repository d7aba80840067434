package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/storage"
)

// GroupService manages groups, their members and members' bank accounts.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group with its initial members.
func (s *GroupService) CreateGroup(ctx context.Context, name string, members []models.Member) (*models.Group, error) {
	slog.Info("CreateGroup request received",
		"name", name,
		"members_count", len(members),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("name", "group name is required")
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" && m.ID == "" {
			return nil, errs.Validation("member", "member needs a name or an id")
		}
		if m.ID != "" && seen[m.ID] {
			return nil, errs.Validation("member", "%s listed twice", m.ID)
		}
		seen[m.ID] = true
	}

	group := &models.Group{
		Name:    name,
		Members: members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", groupID, "error", err)
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, err
	}
	slog.Debug("ListGroups successful", "count", len(groups))
	return groups, nil
}

// AddMember adds a member to a group, creating the member when its ID is new.
func (s *GroupService) AddMember(ctx context.Context, groupID string, member models.Member) (*models.Member, error) {
	if strings.TrimSpace(member.Name) == "" && member.ID == "" {
		return nil, errs.Validation("member", "member needs a name or an id")
	}
	if err := s.store.AddMember(ctx, groupID, &member); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Member added", "group_id", groupID, "member_id", member.ID)
	return &member, nil
}

// RemoveMember takes a member out of a group. It refuses while the member still
// owes or is owed anything there, so no balance is left without an owner.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(memberID) {
		return errs.NotFound("group member", memberID)
	}

	debts, err := s.store.ListDebtsByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if balance := calculator.BalanceOf(calculator.AggregateBalances(debts), memberID); balance != 0 {
		slog.Warn("RemoveMember refused", "group_id", groupID, "member_id", memberID, "balance", balance)
		return errs.Validation("member", "%s still has a balance of %d", memberID, balance)
	}

	if err := s.store.RemoveMember(ctx, groupID, memberID); err != nil {
		slog.Error("RemoveMember failed", "group_id", groupID, "member_id", memberID, "error", err)
		return err
	}

	slog.Info("Member removed", "group_id", groupID, "member_id", memberID)
	return nil
}

// SetBankAccount stores where a member wants to receive payments.
func (s *GroupService) SetBankAccount(ctx context.Context, memberID string, account models.BankAccount) error {
	account.BankCode = strings.ToUpper(strings.TrimSpace(account.BankCode))
	account.AccountNo = strings.TrimSpace(account.AccountNo)
	account.AccountName = strings.TrimSpace(account.AccountName)
	if !account.Complete() {
		return errs.Validation("bank", "bank code, account number and account name are required")
	}

	if err := s.store.SetBankAccount(ctx, memberID, account); err != nil {
		slog.Error("SetBankAccount failed", "member_id", memberID, "error", err)
		return err
	}
	slog.Info("Bank account updated", "member_id", memberID, "bank_code", account.BankCode)
	return nil
}
