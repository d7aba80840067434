package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/calculator"
	"github.com/mmynk/splitfair/internal/metrics"
	"github.com/mmynk/splitfair/internal/models"
	"github.com/mmynk/splitfair/internal/notify"
	"github.com/mmynk/splitfair/internal/storage/sqlite"
)

var testNow = time.Date(2025, time.March, 8, 12, 0, 0, 0, time.UTC)

// setupTestStore creates a SQLite store in a temp file that is removed with the test.
func setupTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return store
}

type fixture struct {
	ledger  *LedgerService
	groups  *GroupService
	events  *notify.Recorder
	metrics *metrics.Metrics
	group   *models.Group
}

// newFixture builds both services over one store with a group of the given members.
// The member "bob" gets a bank account.
func newFixture(t *testing.T, memberIDs ...string) *fixture {
	t.Helper()
	store := setupTestStore(t)

	f := &fixture{
		events:  &notify.Recorder{},
		metrics: metrics.New(prometheus.NewRegistry()),
		groups:  NewGroupService(store),
	}
	f.ledger = NewLedgerService(store,
		WithNotifier(f.events),
		WithMetrics(f.metrics),
		WithClock(func() time.Time { return testNow }),
	)

	members := make([]models.Member, len(memberIDs))
	for i, id := range memberIDs {
		members[i] = models.Member{ID: id, Name: id}
		if id == "bob" {
			members[i].Bank = &models.BankAccount{BankCode: "VCB", AccountNo: "0011001234567", AccountName: "Bob Tran"}
		}
	}
	group, err := f.groups.CreateGroup(context.Background(), "Trip", members)
	require.NoError(t, err)
	f.group = group
	return f
}

func everyone(ids ...string) []calculator.Participant {
	ps := make([]calculator.Participant, len(ids))
	for i, id := range ids {
		ps[i] = calculator.Participant{MemberID: id, Checked: true}
	}
	return ps
}

// addEqual records an equally split expense paid by payer.
func (f *fixture) addEqual(t *testing.T, payer string, amount int64, description string, ids ...string) *ExpenseResult {
	t.Helper()
	res, err := f.ledger.CreateExpense(context.Background(), CreateExpenseRequest{
		GroupID:      f.group.ID,
		PayerID:      payer,
		Amount:       amount,
		Description:  description,
		Strategy:     models.SplitEqual,
		Participants: everyone(ids...),
	})
	require.NoError(t, err)
	return res
}

func balanceMap(balances []models.NetBalance) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for _, b := range balances {
		out[b.MemberID] = b.Amount
	}
	return out
}
