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

func addLine(t *testing.T, repo *repository.MemorySessionRepository, sessionID string, inventoryID uint, times int) {
	t.Helper()

	handler := NewAddItemHandler(repo)
	for i := 0; i < times; i++ {
		if _, err := handler.Handle(context.Background(), AddItemCommand{SessionID: sessionID, InventoryID: inventoryID}); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}
}

func TestCheckoutRejectsInvalidPayment(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	sales := &fakeSales{}

	handler := NewCheckoutHandler(repo, sales, &fakeInventory{}, nil)
	_, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: "bitcoin"})

	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
	assert.Zero(t, sales.calls)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	sales := &fakeSales{}

	handler := NewCheckoutHandler(repo, sales, &fakeInventory{}, nil)
	_, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentCash})

	// Rejected locally; the sales gateway must never see the request.
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, sales.calls)
}

func TestCheckoutRejectsUnboundSession(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	handler := NewOpenSessionHandler(repo, &fakeInventory{})
	result, err := handler.Handle(context.Background(), OpenSessionCommand{OperatorID: 7, MultiBranch: true})
	require.NoError(t, err)

	checkout := NewCheckoutHandler(repo, &fakeSales{}, &fakeInventory{}, nil)
	_, err = checkout.Handle(context.Background(), CheckoutCommand{SessionID: result.Session.ID, PaymentMethod: domain.PaymentCash})

	assert.ErrorIs(t, err, domain.ErrNoBranchSelected)
}

func TestCheckoutIsNotReentrant(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 1)

	// A submission is already in flight for this session.
	require.NoError(t, repo.BeginCheckout(context.Background(), id))

	sales := &fakeSales{}
	handler := NewCheckoutHandler(repo, sales, &fakeInventory{}, nil)
	_, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentCard})

	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)
	assert.Zero(t, sales.calls)
}

func TestCheckoutFailureLeavesCartForRetry(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 2)
	addLine(t, repo, id, 2, 1)

	sales := &fakeSales{err: &domain.SaleSubmissionError{Reason: "insufficient stock"}}
	handler := NewCheckoutHandler(repo, sales, &fakeInventory{}, nil)

	_, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentCash})

	var subErr *domain.SaleSubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "insufficient stock", subErr.Reason)

	// The cart is byte-for-byte what it was and the session is back to
	// idle, so the operator can retry the same sale.
	session, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.Equal(t, domain.CheckoutIdle, session.Checkout)
	assert.Equal(t, 2, session.Cart.LineCount())
	assert.Equal(t, 250.0, session.Cart.Total())
}

func TestCheckoutSuccessClearsCartAndRefreshesStock(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 3)
	addLine(t, repo, id, 2, 1)

	refreshed := []domain.StockRecord{
		{InventoryID: 1, ProductID: 10, ProductName: "Whey Protein 2kg", UnitPrice: 100, Quantity: 0},
		{InventoryID: 2, ProductID: 11, ProductName: "Creatine Monohydrate", UnitPrice: 50, Quantity: 9},
	}
	sales := &fakeSales{receipt: &domain.SaleReceipt{SaleID: "sale-42"}}
	inventory := &fakeInventory{records: refreshed}
	publisher := &fakePublisher{}

	handler := NewCheckoutHandler(repo, sales, inventory, publisher)
	result, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentCard})
	require.NoError(t, err)

	assert.Equal(t, "sale-42", result.Receipt.SaleID)
	assert.Empty(t, result.StockWarning)

	// The submission carried the snapshot, not the live cart.
	assert.Equal(t, 1, sales.calls)
	assert.Equal(t, uint(1), sales.lastSubmission.BranchID)
	assert.Equal(t, uint(7), sales.lastSubmission.OperatorID)
	assert.Equal(t, domain.PaymentCard, sales.lastSubmission.PaymentMethod)
	assert.Equal(t, 350.0, sales.lastSubmission.Total)
	assert.Len(t, sales.lastSubmission.Lines, 2)

	// Completion clears the cart and installs the backend's fresh numbers.
	assert.Equal(t, 1, inventory.calls)
	session, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.True(t, session.Cart.IsEmpty())
	assert.Equal(t, domain.CheckoutIdle, session.Checkout)
	assert.Equal(t, refreshed, session.Stock)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "sale-42", publisher.events[0].SaleID)
	assert.Equal(t, 350.0, publisher.events[0].Total)
}

func TestCheckoutSucceedsWhenPostSaleRefreshFails(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 2, 1)

	sales := &fakeSales{receipt: &domain.SaleReceipt{SaleID: "sale-43"}}
	inventory := &fakeInventory{err: &domain.StockFetchError{BranchID: 1, Err: errors.New("gateway timeout")}}

	handler := NewCheckoutHandler(repo, sales, inventory, nil)
	result, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentCash})
	require.NoError(t, err)

	// The sale stands; only the display data is missing until a manual
	// refresh.
	assert.Equal(t, "sale-43", result.Receipt.SaleID)
	assert.NotEmpty(t, result.StockWarning)

	session, findErr := repo.Find(context.Background(), id)
	require.NoError(t, findErr)
	assert.True(t, session.Cart.IsEmpty())
	assert.Empty(t, session.Stock)
	assert.Equal(t, domain.CheckoutIdle, session.Checkout)
}

func TestCheckoutPublishFailureIsNonFatal(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 1)

	sales := &fakeSales{receipt: &domain.SaleReceipt{SaleID: "sale-44"}}
	publisher := &fakePublisher{err: errors.New("broker unreachable")}

	handler := NewCheckoutHandler(repo, sales, &fakeInventory{records: testStock()}, publisher)
	result, err := handler.Handle(context.Background(), CheckoutCommand{SessionID: id, PaymentMethod: domain.PaymentTransfer})

	require.NoError(t, err)
	assert.Equal(t, "sale-44", result.Receipt.SaleID)
}

func TestCartMutationsBlockedWhileSubmitting(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	id := seedSession(t, repo, false)
	addLine(t, repo, id, 1, 1)

	require.NoError(t, repo.BeginCheckout(context.Background(), id))

	_, err := NewAddItemHandler(repo).Handle(context.Background(), AddItemCommand{SessionID: id, InventoryID: 2})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)

	_, err = NewAdjustQuantityHandler(repo).Handle(context.Background(), AdjustQuantityCommand{SessionID: id, InventoryID: 1, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)

	_, err = NewRemoveItemHandler(repo).Handle(context.Background(), RemoveItemCommand{SessionID: id, InventoryID: 1})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)

	_, err = NewClearCartHandler(repo).Handle(context.Background(), ClearCartCommand{SessionID: id})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)

	err = NewCloseSessionHandler(repo).Handle(context.Background(), CloseSessionCommand{SessionID: id})
	assert.ErrorIs(t, err, domain.ErrCheckoutInFlight)
}
