// Package service orchestrates the pure ledger core over a storage snapshot.
//
// Each call loads what it needs from the store, runs the calculator and lifecycle
// packages, and writes the outcome back in a single store call so a failure leaves
// nothing half-applied.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/lifecycle"
	"github.com/mmynk/splitfair/internal/metrics"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/notify"
	"github.com/mmynk/splitfair/internal/storage"
)

// LedgerService handles expenses, debts, balances and settlement.
type LedgerService struct {
	store    storage.Store
	notifier notify.Notifier
	metrics  *metrics.Metrics
	calc     calculator.Calculator
	planner  calculator.Planner
	now      func() time.Time
	newID    func() string
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithNotifier sets where lifecycle events are sent. The default drops them.
func WithNotifier(n notify.Notifier) Option {
	return func(s *LedgerService) { s.notifier = n }
}

// WithMetrics enables counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithCalculator overrides the split calculator settings.
func WithCalculator(c calculator.Calculator) Option {
	return func(s *LedgerService) { s.calc = c }
}

// WithPlanner overrides the settlement planner settings.
func WithPlanner(p calculator.Planner) Option {
	return func(s *LedgerService) { s.planner = p }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		notifier: notify.Nop{},
		calc:     calculator.Calculator{Tolerance: calculator.DefaultTolerance, Remainder: calculator.RemainderLast},
		planner:  calculator.Planner{Epsilon: calculator.DefaultEpsilon},
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// commitTransitions writes changing transitions as one optimistic batch and
// returns the debts as they are after the write.
func (s *LedgerService) commitTransitions(ctx context.Context, debts []models.Debt, transitions []lifecycle.Transition) ([]models.Debt, error) {
	now := s.now().Unix()
	changes, updated := s.planChanges(debts, transitions, now)
	if len(changes) == 0 {
		return updated, nil
	}

	if err := s.store.ApplyStatusChanges(ctx, changes); err != nil {
		slog.Error("Failed to apply debt status changes", "debts", len(changes), "error", err)
		return nil, err
	}
	s.recordTransitions(changes)
	return updated, nil
}

// planChanges turns transitions into store changes and the resulting debts.
func (s *LedgerService) planChanges(debts []models.Debt, transitions []lifecycle.Transition, now int64) ([]storage.StatusChange, []models.Debt) {
	byID := make(map[string]lifecycle.Transition, len(transitions))
	for _, t := range transitions {
		byID[t.DebtID] = t
	}

	var changes []storage.StatusChange
	updated := make([]models.Debt, len(debts))
	for i, d := range debts {
		t, ok := byID[d.ID]
		if !ok || !t.Changed {
			updated[i] = d
			continue
		}
		changes = append(changes, storage.StatusChange{
			DebtID:    d.ID,
			From:      t.From,
			To:        t.To,
			Version:   t.Version,
			UpdatedAt: now,
		})
		updated[i] = lifecycle.Apply(d, t, now)
	}
	return changes, updated
}

// requireMembers fails with a ValidationError unless every id belongs to the group.
func requireMembers(group *models.Group, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return errs.Validation("member", "member id is required")
		}
		if !group.HasMember(id) {
			return errs.Validation("member", "%s is not a member of group %s", id, group.ID)
		}
	}
	return nil
}
