package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/lifecycle"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/notify"
	"github.com/mmynk/splitfair/internal/payment"
)

// RequestPayment is the debtor saying they have paid. The debt waits for the
// creditor's confirmation and the returned instruction tells the debtor where to send money.
func (s *LedgerService) RequestPayment(ctx context.Context, debtID, actorID string) (*payment.Instruction, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if actorID != debt.From {
		slog.Warn("Payment request denied", "debt_id", debtID, "actor", actorID)
		return nil, &errs.PermissionError{Actor: actorID, Action: "request payment for debt " + debtID}
	}

	t, err := lifecycle.RequestPayment(*debt)
	if err != nil {
		return nil, err
	}
	creditor, err := s.store.GetMember(ctx, debt.To)
	if err != nil {
		return nil, err
	}

	updated, err := s.commitTransitions(ctx, []models.Debt{*debt}, []lifecycle.Transition{t})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, notify.PaymentRequested, debt.To, updated[0])

	inst := payment.NewInstruction(updated[0], *creditor)
	slog.Info("Payment requested", "debt_id", debtID, "amount", debt.Amount, "has_bank", inst.HasBank())
	return &inst, nil
}

// ConfirmPayment is the creditor acknowledging a requested payment.
func (s *LedgerService) ConfirmPayment(ctx context.Context, debtID, actorID string) (*models.Debt, error) {
	return s.creditorAction(ctx, debtID, actorID, lifecycle.ActionConfirm, lifecycle.ConfirmPayment, notify.PaymentConfirmed)
}

// RejectPayment is the creditor denying a requested payment. The debt becomes unsettled again.
func (s *LedgerService) RejectPayment(ctx context.Context, debtID, actorID string) (*models.Debt, error) {
	return s.creditorAction(ctx, debtID, actorID, lifecycle.ActionReject, lifecycle.RejectPayment, notify.PaymentRejected)
}

func (s *LedgerService) creditorAction(
	ctx context.Context,
	debtID, actorID string,
	action lifecycle.Action,
	step func(models.Debt) (lifecycle.Transition, error),
	event notify.Type,
) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	if actorID != debt.To {
		slog.Warn("Creditor action denied", "debt_id", debtID, "actor", actorID, "action", action)
		return nil, &errs.PermissionError{Actor: actorID, Action: string(action) + " debt " + debtID}
	}

	t, err := step(*debt)
	if err != nil {
		return nil, err
	}

	updated, err := s.commitTransitions(ctx, []models.Debt{*debt}, []lifecycle.Transition{t})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, event, debt.From, updated[0])

	slog.Info("Debt updated", "debt_id", debtID, "from_status", t.From, "to_status", t.To)
	return &updated[0], nil
}

// MarkSettled settles one debt without the request and confirm round trip.
// Settling an already settled debt changes nothing.
func (s *LedgerService) MarkSettled(ctx context.Context, debtID string) (*models.Debt, error) {
	debts, err := s.SettleBatch(ctx, []string{debtID})
	if err != nil {
		return nil, err
	}
	return &debts[0], nil
}

// SettleBatch settles several debts at once. Either all of them end up SETTLED
// or none change. Repeated ids are settled once.
func (s *LedgerService) SettleBatch(ctx context.Context, debtIDs []string) ([]models.Debt, error) {
	if len(debtIDs) == 0 {
		return nil, errs.Validation("debts", "no debt ids given")
	}
	debts, err := s.store.GetDebts(ctx, uniqueIDs(debtIDs))
	if err != nil {
		return nil, err
	}
	return s.settle(ctx, debts)
}

// SettlePair settles every active debt from one member to another.
func (s *LedgerService) SettlePair(ctx context.Context, groupID, from, to string) ([]models.Debt, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := requireMembers(group, from, to); err != nil {
		return nil, err
	}

	all, err := s.store.ListDebtsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var pair []models.Debt
	for _, d := range all {
		if d.From == from && d.To == to && d.Status.Active() {
			pair = append(pair, d)
		}
	}
	if len(pair) == 0 {
		return nil, nil
	}
	return s.settle(ctx, pair)
}

// uniqueIDs drops repeats and keeps first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *LedgerService) settle(ctx context.Context, debts []models.Debt) ([]models.Debt, error) {
	transitions, err := lifecycle.SettleBatch(debts)
	if err != nil {
		return nil, err
	}
	updated, err := s.commitTransitions(ctx, debts, transitions)
	if err != nil {
		return nil, err
	}
	slog.Info("Debts settled", "requested", len(debts), "changed", len(transitions))
	return updated, nil
}

// RemindDebt nudges the debtor of an active debt. Only the creditor may do so.
func (s *LedgerService) RemindDebt(ctx context.Context, debtID, actorID string) error {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		return err
	}
	if actorID != debt.To {
		return &errs.PermissionError{Actor: actorID, Action: "send a reminder for debt " + debtID}
	}
	if !debt.Status.Active() {
		return &errs.InvalidStateError{DebtID: debtID, Action: "send a reminder for", Status: string(debt.Status)}
	}

	s.emit(ctx, notify.DebtReminder, debt.From, *debt)
	slog.Info("Debt reminder sent", "debt_id", debtID, "recipient", debt.From)
	return nil
}

func (s *LedgerService) emit(ctx context.Context, typ notify.Type, recipient string, d models.Debt) {
	s.notifier.Notify(ctx, notify.Event{
		Type:      typ,
		Recipient: recipient,
		DebtID:    d.ID,
		FromID:    d.From,
		ToID:      d.To,
		Amount:    d.Amount,
		GroupID:   d.GroupID,
		ExpenseID: d.ExpenseID,
	})
}
