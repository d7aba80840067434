package calculator

import (
	"sort"

	"github.com/mmynk/splitfair/internal/models"
)

// LabelFunc names the bucket a debt falls into within one relationship,
// usually the description of the originating expense.
type LabelFunc func(models.Debt) string

// GroupByCounterpart projects the active debts involving currentMemberID into one
// summary per other member, each broken down by label. Summaries are ordered by
// |Net| descending, then counterpart id; labels keep first-seen order.
func GroupByCounterpart(debts []models.Debt, currentMemberID string, label LabelFunc) []models.CounterpartSummary {
	byCounterpart := make(map[string]*models.CounterpartSummary)
	labelIndex := make(map[string]map[string]int)
	var order []string

	for _, d := range debts {
		if !d.Status.Active() {
			continue
		}
		other := d.Counterpart(currentMemberID)
		if other == "" || other == currentMemberID {
			continue
		}

		summary, ok := byCounterpart[other]
		if !ok {
			summary = &models.CounterpartSummary{CounterpartID: other}
			byCounterpart[other] = summary
			labelIndex[other] = make(map[string]int)
			order = append(order, other)
		}

		signed := d.Amount
		if d.From == currentMemberID {
			summary.Owing += d.Amount
			signed = -d.Amount
		} else {
			summary.Owed += d.Amount
		}
		summary.Net = summary.Owed - summary.Owing
		summary.DebtCount++
		summary.DebtIDs = append(summary.DebtIDs, d.ID)

		name := ""
		if label != nil {
			name = label(d)
		}
		idx, ok := labelIndex[other][name]
		if !ok {
			idx = len(summary.Labels)
			labelIndex[other][name] = idx
			summary.Labels = append(summary.Labels, models.LabelTotal{Label: name})
		}
		summary.Labels[idx].Amount += signed
		summary.Labels[idx].Count++
	}

	out := make([]models.CounterpartSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byCounterpart[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := abs(out[i].Net), abs(out[j].Net)
		if ni != nj {
			return ni > nj
		}
		return out[i].CounterpartID < out[j].CounterpartID
	})
	return out
}
