package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/repository"
)

func TestSelectBranchLoadsStockAndClearsCart(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, true)
	addLine(t, repo, id, 1, 2)

	branchTwoStock := []domain.StockRecord{
		{InventoryID: 5, ProductID: 20, ProductName: "BCAA Lemon", UnitPrice: 30, Quantity: 4},
	}
	inventory := &fakeInventory{records: branchTwoStock}

	handler := NewSelectBranchHandler(repo, inventory)
	session, err := handler.Handle(context.Background(), SelectBranchCommand{SessionID: id, BranchID: 2})
	require.NoError(t, err)

	assert.Equal(t, uint(2), session.BranchID)
	assert.True(t, session.Cart.IsEmpty())
	assert.Equal(t, branchTwoStock, session.Stock)
	assert.Equal(t, 1, inventory.calls)
}

func TestSelectBranchDeniedForSingleBranchOperator(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)

	_, err := NewSelectBranchHandler(repo, &fakeInventory{}).Handle(context.Background(), SelectBranchCommand{SessionID: id, BranchID: 2})
	assert.ErrorIs(t, err, domain.ErrBranchNotAllowed)
}

func TestSelectBranchClearsCartEvenWhenFetchFails(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, true)
	addLine(t, repo, id, 1, 2)

	inventory := &fakeInventory{err: &domain.StockFetchError{BranchID: 2, Err: errors.New("connection refused")}}

	_, err := NewSelectBranchHandler(repo, inventory).Handle(context.Background(), SelectBranchCommand{SessionID: id, BranchID: 2})

	var fetchErr *domain.StockFetchError
	require.ErrorAs(t, err, &fetchErr)

	// The switch itself was persisted before the fetch, so no line from
	// the old branch survives the failure.
	stored, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, uint(2), stored.BranchID)
	assert.True(t, stored.Cart.IsEmpty())
	assert.Empty(t, stored.Stock)
}

func TestSelectBranchDiscardsStaleFetch(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, true)

	// While the fetch for branch 2 is in flight the operator switches to
	// branch 3, so the branch 2 response must not be installed.
	inventory := &fakeInventory{records: testStock()}
	inventory.onFetch = func() {
		if inventory.calls > 1 {
			return
		}
		session, err := repo.Find(context.Background(), id)
		require.NoError(t, err)
		require.NoError(t, session.SelectBranch(3))
		require.NoError(t, repo.Save(context.Background(), session))
	}

	_, err := NewSelectBranchHandler(repo, inventory).Handle(context.Background(), SelectBranchCommand{SessionID: id, BranchID: 2})
	assert.ErrorIs(t, err, domain.ErrStaleStockFetch)

	stored, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, uint(3), stored.BranchID)
	assert.Empty(t, stored.Stock)
}

func TestRefreshStockRebindsCeilings(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 3)

	// Another terminal sold a unit; the refreshed ceiling clamps the line.
	fresh := []domain.StockRecord{
		{InventoryID: 1, ProductID: 10, ProductName: "Whey Protein 2kg", UnitPrice: 100, Quantity: 2},
	}

	handler := NewRefreshStockHandler(repo, &fakeInventory{records: fresh})
	session, err := handler.Handle(context.Background(), RefreshStockCommand{SessionID: id})
	require.NoError(t, err)

	assert.Equal(t, fresh, session.Stock)
	require.Equal(t, 1, session.Cart.LineCount())
	assert.Equal(t, 2, session.Cart.Lines[0].Quantity)
	assert.Equal(t, 2, session.Cart.Lines[0].Ceiling)
}

func TestRefreshStockRequiresBranch(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	result, err := NewOpenSessionHandler(repo, &fakeInventory{}).Handle(context.Background(), OpenSessionCommand{
		OperatorID:  7,
		MultiBranch: true,
	})
	require.NoError(t, err)

	_, err = NewRefreshStockHandler(repo, &fakeInventory{}).Handle(context.Background(), RefreshStockCommand{SessionID: result.Session.ID})
	assert.ErrorIs(t, err, domain.ErrNoBranchSelected)
}
