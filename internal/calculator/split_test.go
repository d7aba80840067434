package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

func raw(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func checked(ids ...string) []Participant {
	ps := make([]Participant, len(ids))
	for i, id := range ids {
		ps[i] = Participant{MemberID: id, Checked: true}
	}
	return ps
}

func amounts(r *SplitResult) []int64 {
	out := make([]int64, len(r.Shares))
	for i, s := range r.Shares {
		out[i] = s.Amount
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		calc         Calculator
		total        int64
		participants []Participant
		strategy     models.SplitStrategy
		want         []int64
		wantValid    bool
		wantDiff     int64
	}{
		{
			name:         "equal three-way gives remainder to last",
			total:        100000,
			participants: checked("U1", "U2", "U3"),
			strategy:     models.SplitEqual,
			want:         []int64{33333, 33333, 33334},
			wantValid:    true,
		},
		{
			name:         "equal three-way round-robin gives remainder to first",
			calc:         Calculator{Remainder: RemainderRoundRobin},
			total:        100000,
			participants: checked("U1", "U2", "U3"),
			strategy:     models.SplitEqual,
			want:         []int64{33334, 33333, 33333},
			wantValid:    true,
		},
		{
			name:         "equal round-robin spreads a larger remainder",
			calc:         Calculator{Remainder: RemainderRoundRobin},
			total:        10,
			participants: checked("A", "B", "C", "D"),
			strategy:     models.SplitEqual,
			want:         []int64{3, 3, 2, 2},
			wantValid:    true,
		},
		{
			name:  "equal skips unchecked participants",
			total: 90000,
			participants: []Participant{
				{MemberID: "A", Checked: true},
				{MemberID: "B", Checked: false},
				{MemberID: "C", Checked: true},
			},
			strategy:  models.SplitEqual,
			want:      []int64{45000, 0, 45000},
			wantValid: true,
		},
		{
			name:         "single participant takes everything",
			total:        12345,
			participants: checked("solo"),
			strategy:     models.SplitEqual,
			want:         []int64{12345},
			wantValid:    true,
		},
		{
			name:  "exact amounts that reconcile",
			total: 60000,
			participants: []Participant{
				{MemberID: "A", Raw: raw(10000), Checked: true},
				{MemberID: "B", Raw: raw(50000), Checked: true},
			},
			strategy:  models.SplitExact,
			want:      []int64{10000, 50000},
			wantValid: true,
		},
		{
			name:  "exact amounts that do not reconcile",
			total: 60000,
			participants: []Participant{
				{MemberID: "A", Raw: raw(10000), Checked: true},
				{MemberID: "B", Raw: raw(40000), Checked: true},
			},
			strategy:  models.SplitExact,
			want:      []int64{10000, 40000},
			wantValid: false,
			wantDiff:  -10000,
		},
		{
			name:  "percentage halves of an odd total overshoot by one",
			total: 99999,
			participants: []Participant{
				{MemberID: "A", Raw: raw(50), Checked: true},
				{MemberID: "B", Raw: raw(50), Checked: true},
			},
			strategy:  models.SplitPercentage,
			want:      []int64{50000, 50000},
			wantValid: false,
			wantDiff:  1,
		},
		{
			name:  "percentage mismatch within configured tolerance",
			calc:  Calculator{Tolerance: 2},
			total: 99999,
			participants: []Participant{
				{MemberID: "A", Raw: raw(50), Checked: true},
				{MemberID: "B", Raw: raw(50), Checked: true},
			},
			strategy:  models.SplitPercentage,
			want:      []int64{50000, 50000},
			wantValid: true,
			wantDiff:  1,
		},
		{
			name:  "percentages not summing to 100 are not renormalized",
			total: 100000,
			participants: []Participant{
				{MemberID: "A", Raw: raw(30), Checked: true},
				{MemberID: "B", Raw: raw(30), Checked: true},
			},
			strategy:  models.SplitPercentage,
			want:      []int64{30000, 30000},
			wantValid: false,
			wantDiff:  -40000,
		},
		{
			name:  "weighted shares",
			total: 100000,
			participants: []Participant{
				{MemberID: "A", Raw: raw(2), Checked: true},
				{MemberID: "B", Checked: true},
				{MemberID: "C", Raw: raw(1), Checked: true},
			},
			strategy:  models.SplitShares,
			want:      []int64{50000, 25000, 25000},
			wantValid: true,
		},
		{
			name:         "default weights that round down are flagged",
			total:        100000,
			participants: checked("A", "B", "C"),
			strategy:     models.SplitShares,
			want:         []int64{33333, 33333, 33333},
			wantValid:    false,
			wantDiff:     -1,
		},
		{
			name:  "all-zero weights yield zero shares",
			total: 100000,
			participants: []Participant{
				{MemberID: "A", Raw: raw(0), Checked: true},
				{MemberID: "B", Raw: raw(0), Checked: true},
			},
			strategy:  models.SplitShares,
			want:      []int64{0, 0},
			wantValid: false,
			wantDiff:  -100000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.calc.Compute(tt.total, tt.participants, tt.strategy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(got))
			assert.Equal(t, tt.wantValid, got.IsValid)
			assert.Equal(t, tt.wantDiff, got.Diff)
		})
	}
}

func TestComputeEqualConservesTotal(t *testing.T) {
	for _, policy := range []RemainderPolicy{RemainderLast, RemainderRoundRobin} {
		calc := Calculator{Remainder: policy}
		for total := int64(1); total <= 500; total += 7 {
			for n := 1; n <= 9; n++ {
				ids := make([]string, n)
				for i := range ids {
					ids[i] = string(rune('A' + i))
				}
				res, err := calc.Compute(total, checked(ids...), models.SplitEqual)
				require.NoError(t, err)
				require.Equal(t, total, res.Sum, "policy=%s total=%d n=%d", policy, total, n)
				require.True(t, res.Exact())
			}
		}
	}
}

func TestComputePercentageKeepsProvenance(t *testing.T) {
	res, err := Calculator{}.Compute(200000, []Participant{
		{MemberID: "A", Raw: raw(25), Checked: true},
		{MemberID: "B", Raw: raw(75), Checked: true},
		{MemberID: "C", Raw: raw(10), Checked: false},
	}, models.SplitPercentage)
	require.NoError(t, err)

	shares := res.ToShares("exp-1")
	require.Len(t, shares, 2)
	assert.Equal(t, "exp-1", shares[0].ExpenseID)
	assert.True(t, shares[0].Percentage.Valid)
	assert.True(t, shares[0].Percentage.Decimal.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, int64(150000), shares[1].Amount)
	assert.True(t, res.Exact())
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	half := decimal.NewNullDecimal(decimal.RequireFromString("10.5"))

	tests := []struct {
		name         string
		total        int64
		participants []Participant
		strategy     models.SplitStrategy
	}{
		{"zero total", 0, checked("A"), models.SplitEqual},
		{"negative total", -5, checked("A"), models.SplitEqual},
		{"no participants", 100, nil, models.SplitEqual},
		{"nobody checked", 100, []Participant{{MemberID: "A"}, {MemberID: "B"}}, models.SplitEqual},
		{"unknown strategy", 100, checked("A"), models.SplitStrategy("RANDOM")},
		{"duplicate member", 100, checked("A", "A"), models.SplitEqual},
		{"empty member id", 100, checked(""), models.SplitEqual},
		{"negative weight", 100, []Participant{{MemberID: "A", Raw: raw(-1), Checked: true}}, models.SplitShares},
		{"negative percentage", 100, []Participant{{MemberID: "A", Raw: raw(-10), Checked: true}}, models.SplitPercentage},
		{"missing exact amount", 100, checked("A"), models.SplitExact},
		{"fractional exact amount", 100, []Participant{{MemberID: "A", Raw: half, Checked: true}}, models.SplitExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculator{}.Compute(tt.total, tt.participants, tt.strategy)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}
