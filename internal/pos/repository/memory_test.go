package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushsport/pos/internal/pos/domain"
)

func newSession(id string) *domain.Session {
	return &domain.Session{
		ID:         id,
		OperatorID: 7,
		BranchID:   1,
		Checkout:   domain.CheckoutIdle,
		Stock: []domain.StockRecord{
			{InventoryID: 1, ProductID: 10, UnitPrice: 100, Quantity: 3},
		},
	}
}

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	found, err := repo.Find(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), found.OperatorID)

	// Find returns a detached copy; mutations are invisible until Save.
	found.Cart.Lines = append(found.Cart.Lines, domain.CartLine{InventoryID: 1, Quantity: 1, Ceiling: 3})
	again, err := repo.Find(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, again.Cart.IsEmpty())

	require.NoError(t, repo.Save(ctx, found))
	again, err = repo.Find(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.LineCount())
}

func TestMemoryRepositoryUnknownSession(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Find(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Save(ctx, newSession("missing")), domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.BeginCheckout(ctx, "missing"), domain.ErrSessionNotFound)
}

func TestMemoryRepositoryDelete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession("s-1")))
	require.NoError(t, repo.Delete(ctx, "s-1"))

	_, err := repo.Find(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestBeginCheckoutIsExclusive(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	require.NoError(t, repo.BeginCheckout(ctx, "s-1"))
	assert.ErrorIs(t, repo.BeginCheckout(ctx, "s-1"), domain.ErrCheckoutInFlight)

	require.NoError(t, repo.EndCheckout(ctx, "s-1"))
	require.NoError(t, repo.BeginCheckout(ctx, "s-1"))
}

func TestBeginCheckoutUnderContention(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("s-1")))

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.BeginCheckout(ctx, "s-1") == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	// Exactly one concurrent checkout may pass the gate.
	assert.Equal(t, 1, len(wins))
}
