package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiBranchSession() *Session {
	s := &Session{
		ID:          "s-1",
		OperatorID:  7,
		MultiBranch: true,
		Checkout:    CheckoutIdle,
	}
	return s
}

func TestSelectBranchClearsCartAndBumpsEpoch(t *testing.T) {
	s := multiBranchSession()
	require.NoError(t, s.SelectBranch(1))
	epoch := s.StockEpoch

	s.Stock = []StockRecord{proteinPowder()}
	require.NoError(t, s.Cart.AddOrIncrement(proteinPowder()))

	require.NoError(t, s.SelectBranch(2))

	assert.Equal(t, uint(2), s.BranchID)
	assert.Equal(t, epoch+1, s.StockEpoch)
	assert.Nil(t, s.Stock)
	assert.True(t, s.Cart.IsEmpty())
}

func TestSelectBranchDeniedForSingleBranchOperator(t *testing.T) {
	s := &Session{ID: "s-2", OperatorID: 8, BranchID: 3}

	err := s.SelectBranch(4)
	assert.ErrorIs(t, err, ErrBranchNotAllowed)
	assert.Equal(t, uint(3), s.BranchID)

	// Re-selecting the bound branch is a no-op switch and is allowed.
	require.NoError(t, s.SelectBranch(3))
}

func TestApplyStockDiscardsStaleResponses(t *testing.T) {
	s := multiBranchSession()
	require.NoError(t, s.SelectBranch(1))
	branchID, epoch := s.BranchID, s.StockEpoch

	// The operator switches again before the first fetch lands.
	require.NoError(t, s.SelectBranch(2))

	applied := s.ApplyStock(branchID, epoch, []StockRecord{proteinPowder()})
	assert.False(t, applied)
	assert.Nil(t, s.Stock)

	// The fetch for the current branch and epoch installs normally.
	applied = s.ApplyStock(s.BranchID, s.StockEpoch, []StockRecord{creatine()})
	assert.True(t, applied)
	require.Len(t, s.Stock, 1)
	assert.Equal(t, uint(2), s.Stock[0].InventoryID)
}

func TestApplyStockRebindsCartCeilings(t *testing.T) {
	s := multiBranchSession()
	require.NoError(t, s.SelectBranch(1))
	require.True(t, s.ApplyStock(1, s.StockEpoch, []StockRecord{proteinPowder()}))

	require.NoError(t, s.Cart.AddOrIncrement(proteinPowder()))
	require.NoError(t, s.Cart.AddOrIncrement(proteinPowder()))
	require.NoError(t, s.Cart.AddOrIncrement(proteinPowder()))

	fresh := proteinPowder()
	fresh.Quantity = 1
	require.True(t, s.ApplyStock(1, s.StockEpoch, []StockRecord{fresh}))

	require.Equal(t, 1, s.Cart.LineCount())
	assert.Equal(t, 1, s.Cart.Lines[0].Quantity)
	assert.Equal(t, 1, s.Cart.Lines[0].Ceiling)
}

func TestSessionCloneIsDeep(t *testing.T) {
	s := multiBranchSession()
	require.NoError(t, s.SelectBranch(1))
	s.Stock = []StockRecord{proteinPowder()}
	require.NoError(t, s.Cart.AddOrIncrement(proteinPowder()))

	clone := s.Clone()
	clone.Stock[0].Quantity = 99
	clone.Cart.Lines[0].Quantity = 3
	clone.BranchID = 5

	assert.Equal(t, 3, s.Stock[0].Quantity)
	assert.Equal(t, 1, s.Cart.Lines[0].Quantity)
	assert.Equal(t, uint(1), s.BranchID)
}
