package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/models"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]int64
		want     []models.SettlementSuggestion
	}{
		{
			name:     "one debtor two creditors",
			balances: map[string]int64{"A": -50000, "B": 30000, "C": 20000},
			want: []models.SettlementSuggestion{
				{From: "A", To: "B", Amount: 30000},
				{From: "A", To: "C", Amount: 20000},
			},
		},
		{
			name:     "largest matched first",
			balances: map[string]int64{"A": -10, "B": -40, "C": 30, "D": 20},
			want: []models.SettlementSuggestion{
				{From: "B", To: "C", Amount: 30},
				{From: "B", To: "D", Amount: 10},
				{From: "A", To: "D", Amount: 10},
			},
		},
		{
			name:     "ties broken by member id",
			balances: map[string]int64{"z": -100, "y": -100, "b": 100, "a": 100},
			want: []models.SettlementSuggestion{
				{From: "y", To: "a", Amount: 100},
				{From: "z", To: "b", Amount: 100},
			},
		},
		{
			name:     "noise within epsilon ignored",
			balances: map[string]int64{"A": -1, "B": 1},
			want:     nil,
		},
		{
			name:     "small balances folded back when they add up",
			balances: map[string]int64{"A": -2, "B": 1, "C": 1},
			want: []models.SettlementSuggestion{
				{From: "A", To: "B", Amount: 1},
				{From: "A", To: "C", Amount: 1},
			},
		},
		{
			name:     "small creditors behind one large debtor",
			balances: map[string]int64{"A": -3, "B": 1, "C": 1, "D": 1},
			want: []models.SettlementSuggestion{
				{From: "A", To: "B", Amount: 1},
				{From: "A", To: "C", Amount: 1},
				{From: "A", To: "D", Amount: 1},
			},
		},
		{
			name:     "already settled",
			balances: map[string]int64{"A": 0, "B": 0},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Planner{Epsilon: 1}.Plan(tt.balances)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanZeroEpsilonTerminates(t *testing.T) {
	got := Planner{}.Plan(map[string]int64{"A": -1, "B": 1})
	assert.Equal(t, []models.SettlementSuggestion{{From: "A", To: "B", Amount: 1}}, got)
}

func TestPlanCompleteness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 300; round++ {
		members := rng.Intn(8) + 2
		n := rng.Intn(25)
		var debts []models.Debt
		for i := 0; i < n; i++ {
			from := fmt.Sprintf("m%d", rng.Intn(members))
			to := fmt.Sprintf("m%d", rng.Intn(members))
			if from == to {
				continue
			}
			debts = append(debts, debt(from, to, rng.Int63n(500000)+1, models.DebtUnsettled))
		}
		balances := AggregateBalances(debts)

		for _, eps := range []int64{0, 1, 3} {
			plan := Planner{Epsilon: eps}.Plan(balances)

			var nonZero int
			for _, v := range balances {
				if v != 0 {
					nonZero++
				}
			}
			if nonZero > 0 {
				require.LessOrEqual(t, len(plan), nonZero-1)
			}

			for _, s := range plan {
				require.Positive(t, s.Amount)
				require.NotEqual(t, s.From, s.To)
			}
			for member, rest := range ApplySuggestions(balances, plan) {
				require.LessOrEqual(t, abs(rest), eps, "round %d eps %d member %s", round, eps, member)
			}
			require.Zero(t, sum(ApplySuggestions(balances, plan)))
		}
	}
}
