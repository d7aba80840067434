package calculator

import (
	"sort"

	"github.com/mmynk/splitfair/internal/models"
)

// DefaultEpsilon plans exact settlements of whole minor units.
const DefaultEpsilon int64 = 0

// Planner produces a short list of transfers that would zero all balances.
type Planner struct {
	// Epsilon is the balance magnitude treated as already settled.
	// Negative values are treated as zero.
	Epsilon int64
}

type position struct {
	member    string
	remaining int64 // Always positive
}

// Plan matches debtors with creditors greedily, largest first.
//
// Members whose |balance| is within Epsilon are left out, unless together they
// carry more than Epsilon, in which case every non-zero balance takes part. Both
// sides are sorted by magnitude descending with member id ascending as the
// tie-break, so the output is deterministic. The result has at most
// debtors+creditors-1 transfers and every balance ends within Epsilon of zero.
func (p Planner) Plan(balances map[string]int64) []models.SettlementSuggestion {
	eps := p.Epsilon
	if eps < 0 {
		eps = 0
	}

	var debtors, creditors, quietDebtors, quietCreditors []position
	var quietNet int64
	for member, amount := range balances {
		switch {
		case amount < -eps:
			debtors = append(debtors, position{member: member, remaining: -amount})
		case amount > eps:
			creditors = append(creditors, position{member: member, remaining: amount})
		case amount < 0:
			quietDebtors = append(quietDebtors, position{member: member, remaining: -amount})
			quietNet += amount
		case amount > 0:
			quietCreditors = append(quietCreditors, position{member: member, remaining: amount})
			quietNet += amount
		}
	}
	if quietNet < -eps || quietNet > eps {
		debtors = append(debtors, quietDebtors...)
		creditors = append(creditors, quietCreditors...)
	}
	sortPositions(debtors)
	sortPositions(creditors)

	var suggestions []models.SettlementSuggestion
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := min(debtor.remaining, creditor.remaining)
		suggestions = append(suggestions, models.SettlementSuggestion{
			From:   debtor.member,
			To:     creditor.member,
			Amount: amount,
		})

		debtor.remaining -= amount
		creditor.remaining -= amount

		if debtor.remaining == 0 {
			i++
		}
		if creditor.remaining == 0 {
			j++
		}
	}

	return suggestions
}

func sortPositions(ps []position) {
	sort.Slice(ps, func(a, b int) bool {
		if ps[a].remaining != ps[b].remaining {
			return ps[a].remaining > ps[b].remaining
		}
		return ps[a].member < ps[b].member
	})
}

// ApplySuggestions returns the balances left after every suggestion is carried out.
func ApplySuggestions(balances map[string]int64, suggestions []models.SettlementSuggestion) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for id, amount := range balances {
		out[id] = amount
	}
	for _, s := range suggestions {
		out[s.From] += s.Amount
		out[s.To] -= s.Amount
	}
	return out
}
