package discount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khapey/internal/branch"
)

func validPercentage() *Discount {
	return &Discount{
		Name:        "Weekend Special",
		Type:        TypePercentage,
		AllBranches: true,
		Percentage:  &PercentageDeal{Percentage: 15},
	}
}

func validLoyalty(name string) *Discount {
	return &Discount{
		Name:        name,
		Type:        TypeLoyalty,
		AllBranches: true,
		Loyalty: &LoyaltyDiscount{
			LoyaltyType:  LoyaltyPercentage,
			PercentTiers: []PercentTier{{FromDays: 0, ToDays: 30, Percentage: 5}},
		},
	}
}

func TestServiceCreateAssignsDefaults(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)

	d := validPercentage()
	require.NoError(t, svc.Create(context.Background(), d))

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusActive, d.Status)
	assert.False(t, d.CreatedAt.IsZero())
	assert.False(t, d.UpdatedAt.IsZero())
}

func TestServiceCreateValidates(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)

	d := validPercentage()
	d.Name = ""

	err := svc.Create(context.Background(), d)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "name", verr.Fields[0].Field)
}

func TestServiceCreateRejectsUnknownBranch(t *testing.T) {
	branches := branch.NewInMemoryRepository()
	require.NoError(t, branches.Create(context.Background(), &branch.Branch{ID: "b1", Name: "Gulberg"}))

	svc := NewService(NewInMemoryRepository(), branches)

	d := validPercentage()
	d.AllBranches = false
	d.BranchIDs = []string{"b1", "b2"}

	err := svc.Create(context.Background(), d)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "branchIds", verr.Fields[0].Field)
}

func TestServiceSingleActiveLoyalty(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	first := validLoyalty("Loyalty A")
	require.NoError(t, svc.Create(ctx, first))

	second := validLoyalty("Loyalty B")
	require.NoError(t, svc.Create(ctx, second))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)

	got, err = svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got.Status)
}

func TestServiceUpdateActivationDemotesOthers(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	first := validLoyalty("Loyalty A")
	require.NoError(t, svc.Create(ctx, first))

	second := validLoyalty("Loyalty B")
	second.Status = StatusInactive
	require.NoError(t, svc.Create(ctx, second))

	// both exist, only the first is active
	second.Status = StatusActive
	require.NoError(t, svc.Update(ctx, second))

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
}

func TestServiceUpdateRequiresID(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)

	err := svc.Update(context.Background(), validPercentage())
	require.Error(t, err)
	_, ok := err.(*ValidationError)
	assert.True(t, ok)
}

func TestServiceUpdateNotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)

	d := validPercentage()
	d.ID = "missing"

	err := svc.Update(context.Background(), d)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceListFilters(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil)
	ctx := context.Background()

	pct := validPercentage()
	require.NoError(t, svc.Create(ctx, pct))

	scoped := validPercentage()
	scoped.Name = "Branch Only"
	scoped.AllBranches = false
	scoped.BranchIDs = []string{"b1"}
	require.NoError(t, svc.Create(ctx, scoped))

	all, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byBranch, err := svc.List(ctx, Filter{Branch: "b1"})
	require.NoError(t, err)
	assert.Len(t, byBranch, 2) // allBranches matches every branch filter

	byBranch, err = svc.List(ctx, Filter{Branch: "b9"})
	require.NoError(t, err)
	require.Len(t, byBranch, 1)
	assert.Equal(t, pct.ID, byBranch[0].ID)
}
