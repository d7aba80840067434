// Package lifecycle is the state machine for a single Debt.
//
//	UNSETTLED --request--> PENDING_CONFIRMATION --confirm--> SETTLED
//	    ^                          |
//	    +---------reject-----------+
//
// MarkSettled moves either active status straight to SETTLED and is idempotent.
// Functions here never mutate their input; the caller persists the returned
// Transition with an optimistic check on the debt's status and version.
package lifecycle

import (
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

// Action names a lifecycle operation.
type Action string

const (
	ActionRequest Action = "request payment for"
	ActionConfirm Action = "confirm payment for"
	ActionReject  Action = "reject payment for"
	ActionSettle  Action = "settle"
)

// EventType is the notification a transition asks the caller to emit.
type EventType string

const (
	EventNone             EventType = ""
	EventPaymentRequested EventType = "PAYMENT_REQUESTED"
	EventPaymentConfirmed EventType = "PAYMENT_CONFIRMED"
	EventPaymentRejected  EventType = "PAYMENT_REJECTED"
)

// Transition describes the outcome of applying an action to a debt.
type Transition struct {
	DebtID string
	Action Action
	From   models.DebtStatus
	To     models.DebtStatus

	// Version is the debt version the transition was computed against.
	Version int64

	// Event is the notification to emit, EventNone for administrative moves.
	Event EventType

	// Changed is false for an idempotent re-settle.
	Changed bool
}

type edge struct {
	from models.DebtStatus
	to   models.DebtStatus
}

var allowed = map[edge]bool{
	{models.DebtUnsettled, models.DebtPendingConfirmation}: true,
	{models.DebtPendingConfirmation, models.DebtSettled}:   true,
	{models.DebtPendingConfirmation, models.DebtUnsettled}: true,
	{models.DebtUnsettled, models.DebtSettled}:             true,
}

// CanTransition reports whether a debt may move directly from one status to another.
// SETTLED is terminal.
func CanTransition(from, to models.DebtStatus) bool {
	return allowed[edge{from, to}]
}

// RequestPayment marks that the debtor says they paid.
func RequestPayment(d models.Debt) (Transition, error) {
	return move(d, ActionRequest, models.DebtUnsettled, models.DebtPendingConfirmation, EventPaymentRequested)
}

// ConfirmPayment is the creditor acknowledging the payment.
func ConfirmPayment(d models.Debt) (Transition, error) {
	return move(d, ActionConfirm, models.DebtPendingConfirmation, models.DebtSettled, EventPaymentConfirmed)
}

// RejectPayment is the creditor saying the payment never arrived.
func RejectPayment(d models.Debt) (Transition, error) {
	return move(d, ActionReject, models.DebtPendingConfirmation, models.DebtUnsettled, EventPaymentRejected)
}

// MarkSettled settles a debt administratively. Settling a SETTLED debt is a no-op.
func MarkSettled(d models.Debt) (Transition, error) {
	t := Transition{
		DebtID:  d.ID,
		Action:  ActionSettle,
		From:    d.Status,
		To:      models.DebtSettled,
		Version: d.Version,
	}
	switch d.Status {
	case models.DebtSettled:
		return t, nil
	case models.DebtUnsettled, models.DebtPendingConfirmation:
		t.Changed = true
		return t, nil
	}
	return Transition{}, invalid(d, ActionSettle)
}

// SettleBatch plans MarkSettled over several debts and returns only the
// transitions that change something. Any unknown status fails the whole batch.
func SettleBatch(debts []models.Debt) ([]Transition, error) {
	out := make([]Transition, 0, len(debts))
	for _, d := range debts {
		t, err := MarkSettled(d)
		if err != nil {
			return nil, err
		}
		if t.Changed {
			out = append(out, t)
		}
	}
	return out, nil
}

// Apply returns a copy of d with the transition's target status and a bumped version.
func Apply(d models.Debt, t Transition, now int64) models.Debt {
	if !t.Changed {
		return d
	}
	d.Status = t.To
	d.Version++
	d.UpdatedAt = now
	return d
}

func move(d models.Debt, action Action, from, to models.DebtStatus, event EventType) (Transition, error) {
	if d.Status != from || !CanTransition(from, to) {
		return Transition{}, invalid(d, action)
	}
	return Transition{
		DebtID:  d.ID,
		Action:  action,
		From:    from,
		To:      to,
		Version: d.Version,
		Event:   event,
		Changed: true,
	}, nil
}

func invalid(d models.Debt, action Action) error {
	return &errs.InvalidStateError{DebtID: d.ID, Action: string(action), Status: string(d.Status)}
}
