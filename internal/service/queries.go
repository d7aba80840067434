package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/models"
)

// DebtFilter narrows ListDebts. The zero value returns every debt of the group.
type DebtFilter struct {
	ActiveOnly bool
	// MemberID keeps only debts this member owes or is owed.
	MemberID string
}

func (f DebtFilter) match(d models.Debt) bool {
	if f.ActiveOnly && !d.Status.Active() {
		return false
	}
	if f.MemberID != "" && d.From != f.MemberID && d.To != f.MemberID {
		return false
	}
	return true
}

// Balances returns every group member's net balance, ordered by member id.
// Positive means the member is owed money.
func (s *LedgerService) Balances(ctx context.Context, groupID string) ([]models.NetBalance, error) {
	balances, err := s.groupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SortedBalances(balances), nil
}

// MyBalance returns currentMemberID's net balance in the group.
func (s *LedgerService) MyBalance(ctx context.Context, groupID, currentMemberID string) (int64, error) {
	balances, err := s.groupBalances(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return calculator.BalanceOf(balances, currentMemberID), nil
}

// Suggestions plans the fewest transfers that bring every balance to zero.
func (s *LedgerService) Suggestions(ctx context.Context, groupID string) ([]models.SettlementSuggestion, error) {
	balances, err := s.groupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	plan := s.planner.Plan(balances)
	s.metrics.Suggested(len(plan))
	slog.Debug("Settlement plan", "group_id", groupID, "members", len(balances), "suggestions", len(plan))
	return plan, nil
}

// ListDebts returns the group's debts in creation order.
func (s *LedgerService) ListDebts(ctx context.Context, groupID string, filter DebtFilter) ([]models.Debt, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	all, err := s.store.ListDebtsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	debts := make([]models.Debt, 0, len(all))
	for _, d := range all {
		if filter.match(d) {
			debts = append(debts, d)
		}
	}
	return debts, nil
}

// DebtsByCounterpart groups currentMemberID's active debts by the other member,
// broken down by the description of the expense each debt came from.
func (s *LedgerService) DebtsByCounterpart(ctx context.Context, groupID, currentMemberID string) ([]models.CounterpartSummary, error) {
	debts, err := s.ListDebts(ctx, groupID, DebtFilter{ActiveOnly: true, MemberID: currentMemberID})
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	descriptions := make(map[string]string, len(expenses))
	for _, e := range expenses {
		descriptions[e.ID] = e.Description
	}
	label := func(d models.Debt) string { return descriptions[d.ExpenseID] }

	return calculator.GroupByCounterpart(debts, currentMemberID, label), nil
}

// groupBalances aggregates the group's active debts and lists members without debts at zero.
func (s *LedgerService) groupBalances(ctx context.Context, groupID string) (map[string]int64, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	debts, err := s.store.ListDebtsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.WithMembers(calculator.AggregateBalances(debts), group.MemberIDs()), nil
}
