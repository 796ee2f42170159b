package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/repository"
)

func seedSession(t *testing.T, repo *repository.MemorySessionRepository, branchID uint) *domain.Session {
	t.Helper()

	session := &domain.Session{
		ID:         "s-1",
		OperatorID: 7,
		BranchID:   branchID,
		Checkout:   domain.CheckoutIdle,
	}
	if branchID != 0 {
		session.Stock = []domain.StockRecord{
			{InventoryID: 1, ProductID: 10, ProductName: "Whey Protein 2kg", UnitPrice: 100, Quantity: 3},
		}
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}

func TestGetSessionViewDerivesTotals(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	session := seedSession(t, repo, 1)

	require.NoError(t, session.Cart.AddOrIncrement(session.Stock[0]))
	require.NoError(t, session.Cart.AddOrIncrement(session.Stock[0]))
	require.NoError(t, repo.Save(context.Background(), session))

	view, err := NewGetSessionHandler(repo).Handle(context.Background(), GetSessionQuery{SessionID: "s-1"})
	require.NoError(t, err)

	assert.Equal(t, "s-1", view.ID)
	assert.Equal(t, 1, view.Cart.LineCount)
	assert.Equal(t, 2, view.Cart.TotalQuantity)
	assert.Equal(t, 200.0, view.Cart.Total)
}

func TestGetSessionNotFound(t *testing.T) {
	repo := repository.NewMemorySessionRepository()

	_, err := NewGetSessionHandler(repo).Handle(context.Background(), GetSessionQuery{SessionID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestListStock(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	seedSession(t, repo, 1)

	records, err := NewListStockHandler(repo).Handle(context.Background(), ListStockQuery{SessionID: "s-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint(1), records[0].InventoryID)
}

func TestListStockRequiresBranch(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	session := seedSession(t, repo, 0)
	session.MultiBranch = true
	require.NoError(t, repo.Save(context.Background(), session))

	_, err := NewListStockHandler(repo).Handle(context.Background(), ListStockQuery{SessionID: "s-1"})
	assert.ErrorIs(t, err, domain.ErrNoBranchSelected)
}
