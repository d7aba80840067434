// Package notify is the boundary to the notification collaborator.
// Delivery and formatting live outside the ledger; events here are fire-and-forget.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Type identifies the kind of event.
type Type string

const (
	PaymentRequested Type = "PAYMENT_REQUESTED"
	PaymentConfirmed Type = "PAYMENT_CONFIRMED"
	PaymentRejected  Type = "PAYMENT_REJECTED"
	DebtReminder     Type = "DEBT_REMINDER"
)

// Event is what the ledger tells the notification collaborator.
type Event struct {
	Type Type

	// Recipient is the member who should receive the notification.
	Recipient string

	DebtID    string
	FromID    string
	ToID      string
	Amount    int64
	GroupID   string
	ExpenseID string
}

// Notifier delivers events. Implementations must not block the caller on
// delivery and must not report delivery failures back into the ledger.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// LogNotifier writes events to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier logging through logger, or slog.Default() when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, event Event) {
	n.logger.InfoContext(ctx, "Notification",
		"type", event.Type,
		"recipient", event.Recipient,
		"debt_id", event.DebtID,
		"from", event.FromID,
		"to", event.ToID,
		"amount", event.Amount,
		"group_id", event.GroupID,
		"expense_id", event.ExpenseID,
	)
}

// Recorder keeps events in memory. Useful for tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) {}
