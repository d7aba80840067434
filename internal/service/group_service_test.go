package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitfair/internal/errs"
	"github.com/mmynk/splitfair/internal/models"
)

func TestGroupService_CreateGroup(t *testing.T) {
	svc := NewGroupService(setupTestStore(t))
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "  Roommates ", []models.Member{
		{ID: "alice", Name: "Alice"},
		{Name: "Bob"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Roommates", group.Name)
	assert.NotEmpty(t, group.Members[1].ID, "member without id gets one")

	got, err := svc.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 2)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	tests := []struct {
		name    string
		group   string
		members []models.Member
	}{
		{"empty name", " ", nil},
		{"duplicate member", "Trip", []models.Member{{ID: "a", Name: "A"}, {ID: "a", Name: "A"}}},
		{"anonymous member", "Trip", []models.Member{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateGroup(ctx, tt.group, tt.members)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}

	_, err = svc.GetGroup(ctx, "nonexistent")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGroupService_Members(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice", "bob")

	carol, err := f.groups.AddMember(ctx, f.group.ID, models.Member{ID: "carol", Name: "Carol"})
	require.NoError(t, err)
	assert.Equal(t, "carol", carol.ID)

	_, err = f.groups.AddMember(ctx, "nonexistent", models.Member{ID: "dave", Name: "Dave"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	debt := f.addEqual(t, "alice", 2000, "Cake", "carol").Debts[0]

	err = f.groups.RemoveMember(ctx, f.group.ID, "carol")
	assert.ErrorIs(t, err, errs.ErrValidation, "carol still owes alice")

	_, err = f.ledger.MarkSettled(ctx, debt.ID)
	require.NoError(t, err)
	require.NoError(t, f.groups.RemoveMember(ctx, f.group.ID, "carol"))

	group, err := f.groups.GetGroup(ctx, f.group.ID)
	require.NoError(t, err)
	assert.False(t, group.HasMember("carol"))

	assert.ErrorIs(t, f.groups.RemoveMember(ctx, f.group.ID, "carol"), errs.ErrNotFound)
}

func TestGroupService_SetBankAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "alice", "carol")

	err := f.groups.SetBankAccount(ctx, "carol", models.BankAccount{BankCode: " tcb", AccountNo: "19001234 ", AccountName: "Carol Le"})
	require.NoError(t, err)

	debt := f.addEqual(t, "carol", 5000, "Fuel", "alice").Debts[0]
	inst, err := f.ledger.RequestPayment(ctx, debt.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "TCB", inst.BankCode)
	assert.Equal(t, "19001234", inst.AccountNo)
	assert.Equal(t, "CAROL LE", inst.AccountName)

	err = f.groups.SetBankAccount(ctx, "carol", models.BankAccount{BankCode: "TCB"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	err = f.groups.SetBankAccount(ctx, "ghost", models.BankAccount{BankCode: "TCB", AccountNo: "1", AccountName: "X"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
