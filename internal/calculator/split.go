package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

// RemainderPolicy decides who absorbs the integer remainder of an EQUAL split.
type RemainderPolicy string

const (
	// RemainderLast gives the whole remainder to the last checked participant.
	RemainderLast RemainderPolicy = "last"

	// RemainderRoundRobin gives one unit each to the first checked participants.
	RemainderRoundRobin RemainderPolicy = "round-robin"
)

// DefaultTolerance accepts only an exact reconciliation.
const DefaultTolerance int64 = 1

var hundred = decimal.NewFromInt(100)

// Participant is one candidate for a share of an expense.
type Participant struct {
	MemberID string

	// Raw is the strategy-specific input: the literal amount for EXACT, a
	// percentage for PERCENTAGE, a weight for SHARES. Ignored for EQUAL.
	// An absent weight under SHARES counts as 1.
	Raw decimal.NullDecimal

	// Checked participants take part in the split; unchecked ones get 0.
	Checked bool
}

// ShareAmount is one participant's computed portion.
type ShareAmount struct {
	MemberID   string
	Amount     int64
	Percentage decimal.NullDecimal
	Checked    bool
}

// SplitResult is the outcome of a split computation.
type SplitResult struct {
	Strategy models.SplitStrategy
	Total    int64

	// Shares lists every participant in input order, unchecked ones with 0.
	Shares []ShareAmount

	// Sum is the total of checked share amounts.
	Sum int64

	// Diff is Sum - Total.
	Diff int64

	// IsValid is |Diff| < tolerance.
	IsValid bool
}

// Exact reports whether the shares reproduce the total to the unit.
func (r *SplitResult) Exact() bool {
	return r.Diff == 0
}

// ToShares converts the checked portions into Share records for expenseID.
func (r *SplitResult) ToShares(expenseID string) []models.Share {
	shares := make([]models.Share, 0, len(r.Shares))
	for _, s := range r.Shares {
		if !s.Checked {
			continue
		}
		shares = append(shares, models.Share{
			ExpenseID:  expenseID,
			MemberID:   s.MemberID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		})
	}
	return shares
}

// Calculator turns one total into per-participant integer shares.
// The zero value uses DefaultTolerance and RemainderLast.
type Calculator struct {
	// Tolerance bounds |Sum - Total| for IsValid. Values <= 0 mean DefaultTolerance.
	Tolerance int64

	// Remainder picks the EQUAL remainder rule. Empty means RemainderLast.
	Remainder RemainderPolicy
}

// Compute splits total among participants using strategy.
//
// EQUAL always reproduces the total exactly. EXACT, PERCENTAGE and SHARES never
// redistribute a rounding mismatch; it is reported through Diff and IsValid so the
// caller can reject the split or let the user adjust inputs.
func (c Calculator) Compute(total int64, participants []Participant, strategy models.SplitStrategy) (*SplitResult, error) {
	if total <= 0 {
		return nil, errs.Validation("total", "must be positive, got %d", total)
	}
	if !strategy.Valid() {
		return nil, errs.Validation("strategy", "unknown strategy %q", strategy)
	}
	if err := validateParticipants(participants, strategy); err != nil {
		return nil, err
	}

	result := &SplitResult{
		Strategy: strategy,
		Total:    total,
		Shares:   make([]ShareAmount, len(participants)),
	}
	checked := make([]int, 0, len(participants))
	for i, p := range participants {
		result.Shares[i] = ShareAmount{MemberID: p.MemberID, Checked: p.Checked}
		if p.Checked {
			checked = append(checked, i)
		}
	}
	if len(checked) == 0 {
		return nil, errs.Validation("participants", "at least one participant must be checked")
	}

	switch strategy {
	case models.SplitEqual:
		c.splitEqual(total, checked, result.Shares)
	case models.SplitExact:
		for _, i := range checked {
			result.Shares[i].Amount = participants[i].Raw.Decimal.IntPart()
		}
	case models.SplitPercentage:
		base := decimal.NewFromInt(total)
		for _, i := range checked {
			pct := participants[i].Raw.Decimal
			result.Shares[i].Amount = base.Mul(pct).DivRound(hundred, 0).IntPart()
			result.Shares[i].Percentage = decimal.NewNullDecimal(pct)
		}
	case models.SplitShares:
		splitByWeight(total, participants, checked, result.Shares)
	}

	for _, i := range checked {
		result.Sum += result.Shares[i].Amount
	}
	result.Diff = result.Sum - total
	result.IsValid = abs(result.Diff) < c.tolerance()

	return result, nil
}

func (c Calculator) tolerance() int64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

func (c Calculator) splitEqual(total int64, checked []int, shares []ShareAmount) {
	n := int64(len(checked))
	base := total / n

	if c.Remainder == RemainderRoundRobin {
		extra := total % n
		for k, i := range checked {
			shares[i].Amount = base
			if int64(k) < extra {
				shares[i].Amount++
			}
		}
		return
	}

	var assigned int64
	for _, i := range checked[:len(checked)-1] {
		shares[i].Amount = base
		assigned += base
	}
	shares[checked[len(checked)-1]].Amount = total - assigned
}

func splitByWeight(total int64, participants []Participant, checked []int, shares []ShareAmount) {
	weights := make(map[int]decimal.Decimal, len(checked))
	sum := decimal.Zero
	for _, i := range checked {
		w := decimal.NewFromInt(1)
		if participants[i].Raw.Valid {
			w = participants[i].Raw.Decimal
		}
		weights[i] = w
		sum = sum.Add(w)
	}
	if sum.IsZero() {
		return
	}

	base := decimal.NewFromInt(total)
	for _, i := range checked {
		shares[i].Amount = base.Mul(weights[i]).DivRound(sum, 0).IntPart()
	}
}

func validateParticipants(participants []Participant, strategy models.SplitStrategy) error {
	if len(participants) == 0 {
		return errs.Validation("participants", "at least one participant is required")
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.MemberID == "" {
			return errs.Validation("participants", "member id is empty")
		}
		if seen[p.MemberID] {
			return errs.Validation("participants", "member %s appears more than once", p.MemberID)
		}
		seen[p.MemberID] = true

		if !p.Checked || strategy == models.SplitEqual {
			continue
		}
		if err := validateRaw(p, strategy); err != nil {
			return err
		}
	}
	return nil
}

func validateRaw(p Participant, strategy models.SplitStrategy) error {
	field := fmt.Sprintf("input for %s", p.MemberID)
	switch strategy {
	case models.SplitExact, models.SplitPercentage:
		if !p.Raw.Valid {
			return errs.Validation(field, "required for %s split", strategy)
		}
	}
	if !p.Raw.Valid {
		return nil
	}
	if p.Raw.Decimal.IsNegative() {
		return errs.Validation(field, "must not be negative, got %s", p.Raw.Decimal)
	}
	if strategy == models.SplitExact && !p.Raw.Decimal.IsInteger() {
		return errs.Validation(field, "exact amount must be whole units, got %s", p.Raw.Decimal)
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
