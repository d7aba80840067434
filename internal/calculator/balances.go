package calculator

import (
	"sort"

	"github.com/mmynk/splitfair/internal/models"
)

// AggregateBalances reduces debts into one signed net amount per member.
//
// Only active debts (UNSETTLED, PENDING_CONFIRMATION) count. Every member named by
// an active debt appears in the result, starting from zero: the debtor's balance
// goes down by the amount and the creditor's goes up. The balances always sum to zero.
func AggregateBalances(debts []models.Debt) map[string]int64 {
	balances := make(map[string]int64)
	for _, d := range debts {
		if !d.Status.Active() {
			continue
		}
		balances[d.From] -= d.Amount
		balances[d.To] += d.Amount
	}
	return balances
}

// WithMembers returns a copy of balances that also lists memberIDs at zero,
// so members without active debts still show up in a group view.
func WithMembers(balances map[string]int64, memberIDs []string) map[string]int64 {
	out := make(map[string]int64, len(balances)+len(memberIDs))
	for _, id := range memberIDs {
		out[id] = 0
	}
	for id, amount := range balances {
		out[id] = amount
	}
	return out
}

// SortedBalances flattens balances into a slice ordered by member id.
func SortedBalances(balances map[string]int64) []models.NetBalance {
	out := make([]models.NetBalance, 0, len(balances))
	for id, amount := range balances {
		out = append(out, models.NetBalance{MemberID: id, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MemberID < out[j].MemberID
	})
	return out
}

// BalanceOf returns currentMemberID's net balance, zero if the member has no active debts.
func BalanceOf(balances map[string]int64, currentMemberID string) int64 {
	return balances[currentMemberID]
}
