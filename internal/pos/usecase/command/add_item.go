package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
)

// AddItemCommand represents the command to add one unit of a product to
// the cart, creating the line when it does not exist yet.
type AddItemCommand struct {
	SessionID   string
	InventoryID uint
}

// AddItemHandler handles the add item command.
type AddItemHandler struct {
	sessions domain.SessionRepository
}

// NewAddItemHandler creates a new add item handler.
func NewAddItemHandler(sessions domain.SessionRepository) *AddItemHandler {
	return &AddItemHandler{sessions: sessions}
}

// Handle executes the add item command. The ceiling and zero-stock rules
// live in the cart; a violation leaves the cart untouched and surfaces as
// a warning, never as a server fault.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (*domain.Session, error) {
	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.BranchSelected() {
		return nil, domain.ErrNoBranchSelected
	}

	record, ok := session.StockByInventoryID(cmd.InventoryID)
	if !ok {
		return nil, domain.ErrStockNotFound
	}

	if err := session.Cart.AddOrIncrement(record); err != nil {
		return nil, err
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
