package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/repository"
)

func TestAddItemCreatesAndIncrementsLine(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)

	handler := NewAddItemHandler(repo)

	session, err := handler.Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 1})
	require.NoError(t, err)
	require.Equal(t, 1, session.Cart.LineCount())
	assert.Equal(t, 1, session.Cart.Lines[0].Quantity)

	session, err = handler.Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, session.Cart.LineCount())
	assert.Equal(t, 2, session.Cart.Lines[0].Quantity)

	// The change is persisted, not just on the returned copy.
	stored, err := repo.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Cart.TotalQuantity())
}

func TestAddItemUnknownRecord(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)

	_, err := NewAddItemHandler(repo).Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 99})
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestAddItemRequiresBranch(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	result, err := NewOpenSessionHandler(repo, &fakeInventory{}).Handle(context.Background(), OpenSessionCommand{
		OperatorID:  7,
		MultiBranch: true,
	})
	require.NoError(t, err)

	_, err = NewAddItemHandler(repo).Handle(context.Background(), AddItemCommand{SessionID: result.Session.ID, InventoryID: 1})
	assert.ErrorIs(t, err, domain.ErrNoBranchSelected)
}

func TestAddItemCeilingErrorLeavesCartUntouched(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	handler := NewAddItemHandler(repo)

	for i := 0; i < 3; i++ {
		_, err := handler.Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 1})
		require.NoError(t, err)
	}

	_, err := handler.Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 1})
	assert.ErrorIs(t, err, domain.ErrStockCeiling)

	stored, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, 3, stored.Cart.Lines[0].Quantity)
	assert.Equal(t, 300.0, stored.Cart.Total())
}

func TestAdjustQuantityPersistsClampedValue(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 2, 1)

	handler := NewAdjustQuantityHandler(repo)

	session, err := handler.Handle(context.Background(), AdjustQuantityCommand{SessionID: id, InventoryID: 2, Delta: 100})
	require.NoError(t, err)
	assert.Equal(t, 10, session.Cart.Lines[0].Quantity)

	session, err = handler.Handle(context.Background(), AdjustQuantityCommand{SessionID: id, InventoryID: 2, Delta: -100})
	require.NoError(t, err)
	assert.Equal(t, 1, session.Cart.Lines[0].Quantity)

	_, err = handler.Handle(context.Background(), AdjustQuantityCommand{SessionID: id, InventoryID: 2, Delta: 0})
	assert.Error(t, err)
}

func TestRemoveAndClearCart(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 2)
	addLine(t, repo, id, 2, 1)

	session, err := NewRemoveItemHandler(repo).Handle(context.Background(), RemoveItemCommand{SessionID: id, InventoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, session.Cart.LineCount())

	_, err = NewRemoveItemHandler(repo).Handle(context.Background(), RemoveItemCommand{SessionID: id, InventoryID: 1})
	assert.ErrorIs(t, err, domain.ErrLineNotFound)

	session, err = NewClearCartHandler(repo).Handle(context.Background(), ClearCartCommand{SessionID: id})
	require.NoError(t, err)
	assert.True(t, session.Cart.IsEmpty())
	assert.Equal(t, 0.0, session.Cart.Total())
}
