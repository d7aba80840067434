package main

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.Validation("amount", "must be positive"), 2},
		{fmt.Errorf("failed to load: %w", errs.NotFound("debt", "d1")), 3},
		{&errs.InvalidStateError{DebtID: "d1", Action: "settle", Status: "SETTLED"}, 4},
		{&errs.PermissionError{Actor: "a", Action: "confirm"}, 5},
		{fmt.Errorf("disk full"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.err.Error())
	}
}

func TestParseParticipants(t *testing.T) {
	got, err := parseParticipants([]string{"an", "binh=60.5", " chi = 2 "}, []string{"dung"})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "an", got[0].MemberID)
	assert.True(t, got[0].Checked)
	assert.False(t, got[0].Raw.Valid)

	assert.True(t, got[1].Raw.Decimal.Equal(decimal.RequireFromString("60.5")))
	assert.Equal(t, "chi", got[2].MemberID)
	assert.True(t, got[2].Raw.Decimal.Equal(decimal.NewFromInt(2)))

	assert.Equal(t, "dung", got[3].MemberID)
	assert.False(t, got[3].Checked)

	_, err = parseParticipants([]string{"an=abc"}, nil)
	assert.Error(t, err)
}

func TestParseMember(t *testing.T) {
	assert.Equal(t, models.Member{ID: "an", Name: "An Nguyen"}, parseMember("an:An Nguyen"))
	assert.Equal(t, models.Member{ID: "binh", Name: "binh"}, parseMember("binh"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,250,000", formatAmount(1250000))
	assert.Equal(t, "-33,334", formatAmount(-33334))
	assert.Contains(t, formatSigned(500), "+500")
	assert.Contains(t, formatSigned(-500), "-500")
}
