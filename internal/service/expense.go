package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/lifecycle"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/storage"
)

// CreateExpenseRequest describes a new expense and how to split it.
type CreateExpenseRequest struct {
	GroupID      string
	PayerID      string
	Amount       int64
	Description  string
	BillID       string
	Strategy     models.SplitStrategy
	Participants []calculator.Participant
}

// RecordPaymentRequest describes money handed from one member to another outside
// any existing debt.
type RecordPaymentRequest struct {
	GroupID     string
	From        string
	To          string
	Amount      int64
	Description string
}

// ExpenseResult is what an expense write produced.
type ExpenseResult struct {
	Expense models.Expense
	Shares  []models.Share
	Debts   []models.Debt

	// Settled holds debts closed by the same write.
	Settled []models.Debt
}

// PreviewSplit runs the split calculator without writing anything.
func (s *LedgerService) PreviewSplit(total int64, participants []calculator.Participant, strategy models.SplitStrategy) (*calculator.SplitResult, error) {
	result, err := s.calc.Compute(total, participants, strategy)
	if err != nil {
		return nil, err
	}
	slog.Debug("Split preview",
		"strategy", strategy,
		"total", total,
		"sum", result.Sum,
		"diff", result.Diff,
		"valid", result.IsValid,
	)
	return result, nil
}

// CreateExpense splits an expense, derives its debts and stores everything at once.
// A split whose shares do not add up to the amount exactly is rejected.
func (s *LedgerService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResult, error) {
	group, err := s.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, req.PayerID); err != nil {
		return nil, err
	}
	for _, p := range req.Participants {
		if err := requireMembers(group, p.MemberID); err != nil {
			return nil, err
		}
	}

	split, err := s.calc.Compute(req.Amount, req.Participants, req.Strategy)
	if err != nil {
		s.metrics.SplitRejected(string(req.Strategy))
		return nil, err
	}
	if !split.Exact() {
		s.metrics.SplitRejected(string(req.Strategy))
		slog.Warn("Split does not reconcile",
			"group_id", req.GroupID,
			"strategy", req.Strategy,
			"total", req.Amount,
			"sum", split.Sum,
			"diff", split.Diff,
		)
		return nil, errs.Validation("split", "shares sum to %d but the expense is %d (diff %d)",
			split.Sum, req.Amount, split.Diff)
	}

	expense := models.Expense{
		ID:          s.newID(),
		GroupID:     req.GroupID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Description: req.Description,
		BillID:      req.BillID,
		Strategy:    req.Strategy,
		Kind:        models.KindExpense,
		CreatedAt:   s.now().Unix(),
	}
	result, err := s.commitExpense(ctx, expense, split.ToShares(expense.ID), nil)
	if err != nil {
		return nil, err
	}

	slog.Info("Expense created",
		"group_id", expense.GroupID,
		"expense_id", result.Expense.ID,
		"strategy", expense.Strategy,
		"amount", expense.Amount,
		"debts", len(result.Debts),
	)
	return result, nil
}

// RecordPayment stores a payment from one member to another as a settlement
// expense. Its single debt runs the opposite way and offsets their balances.
func (s *LedgerService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*ExpenseResult, error) {
	if req.Amount <= 0 {
		return nil, errs.Validation("amount", "must be positive, got %d", req.Amount)
	}
	if req.From == req.To {
		return nil, errs.Validation("member", "cannot record a payment from %s to themselves", req.From)
	}
	group, err := s.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, req.From, req.To); err != nil {
		return nil, err
	}

	expense := s.settlementExpense(req.GroupID, req.From, req.Amount, req.Description)
	shares := []models.Share{{ExpenseID: expense.ID, MemberID: req.To, Amount: req.Amount}}

	result, err := s.commitExpense(ctx, expense, shares, nil)
	if err != nil {
		return nil, err
	}

	slog.Info("Payment recorded",
		"group_id", req.GroupID,
		"from", req.From,
		"to", req.To,
		"amount", req.Amount,
	)
	return result, nil
}

// OptimizeCrossedDebt collapses the active debts running both ways between a and b
// into at most one debt for the net amount. Their balances do not change.
func (s *LedgerService) OptimizeCrossedDebt(ctx context.Context, groupID, a, b string) (*ExpenseResult, error) {
	if a == b {
		return nil, errs.Validation("member", "cannot net %s against themselves", a)
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, a, b); err != nil {
		return nil, err
	}

	all, err := s.store.ListDebtsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var between []models.Debt
	var aOwes, bOwes int64
	for _, d := range all {
		if !d.Status.Active() {
			continue
		}
		switch {
		case d.From == a && d.To == b:
			aOwes += d.Amount
		case d.From == b && d.To == a:
			bOwes += d.Amount
		default:
			continue
		}
		between = append(between, d)
	}
	if aOwes == 0 || bOwes == 0 {
		return nil, errs.Validation("debts", "no crossed debts between %s and %s", a, b)
	}

	transitions, err := lifecycle.SettleBatch(between)
	if err != nil {
		return nil, err
	}
	now := s.now().Unix()
	changes, settled := s.planChanges(between, transitions, now)

	net := aOwes - bOwes
	if net == 0 {
		if err := s.store.ApplyStatusChanges(ctx, changes); err != nil {
			return nil, err
		}
		s.recordTransitions(changes)
		slog.Info("Crossed debts cancelled out", "group_id", groupID, "a", a, "b", b, "debts", len(between))
		return &ExpenseResult{Settled: settled}, nil
	}

	// The remaining debtor owes the creditor; model it as the creditor paying
	// for the debtor so the derived debt runs debtor to creditor.
	debtor, creditor := a, b
	if net < 0 {
		debtor, creditor, net = b, a, -net
	}
	description := fmt.Sprintf("Net of %d debts between %s and %s", len(between), a, b)
	expense := s.settlementExpense(groupID, creditor, net, description)
	shares := []models.Share{{ExpenseID: expense.ID, MemberID: debtor, Amount: net}}

	result, err := s.commitExpense(ctx, expense, shares, changes)
	if err != nil {
		return nil, err
	}
	s.recordTransitions(changes)
	result.Settled = settled

	slog.Info("Crossed debts netted",
		"group_id", groupID,
		"debtor", debtor,
		"creditor", creditor,
		"amount", net,
		"settled", len(changes),
	)
	return result, nil
}

func (s *LedgerService) settlementExpense(groupID, payerID string, amount int64, description string) models.Expense {
	return models.Expense{
		ID:          s.newID(),
		GroupID:     groupID,
		PayerID:     payerID,
		Amount:      amount,
		Description: description,
		Strategy:    models.SplitExact,
		Kind:        models.KindSettlement,
		CreatedAt:   s.now().Unix(),
	}
}

// commitExpense derives debts for the shares and writes expense, shares, debts
// and status changes in one store call.
func (s *LedgerService) commitExpense(ctx context.Context, expense models.Expense, shares []models.Share, settle []storage.StatusChange) (*ExpenseResult, error) {
	if sum := calculator.SumShares(shares); sum != expense.Amount {
		return nil, errs.Validation("shares", "shares sum to %d but the expense is %d", sum, expense.Amount)
	}

	debts, err := calculator.DeriveDebts(expense, shares)
	if err != nil {
		return nil, err
	}
	for i := range debts {
		debts[i].ID = s.newID()
	}

	commit := &storage.ExpenseCommit{
		Expense: &expense,
		Shares:  shares,
		Debts:   debts,
		Settle:  settle,
	}
	if err := s.store.CommitExpense(ctx, commit); err != nil {
		slog.Error("Failed to commit expense", "group_id", expense.GroupID, "error", err)
		return nil, err
	}

	s.metrics.ExpenseCreated(string(expense.Strategy), string(expense.Kind), len(debts))
	return &ExpenseResult{
		Expense: *commit.Expense,
		Shares:  commit.Shares,
		Debts:   commit.Debts,
	}, nil
}

func (s *LedgerService) recordTransitions(changes []storage.StatusChange) {
	for _, c := range changes {
		s.metrics.Transition(string(c.From), string(c.To))
	}
}
