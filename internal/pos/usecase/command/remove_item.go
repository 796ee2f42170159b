package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
)

// RemoveItemCommand represents the command to drop a line from the cart.
type RemoveItemCommand struct {
	SessionID   string
	InventoryID uint
}

// RemoveItemHandler handles the remove item command.
type RemoveItemHandler struct {
	sessions domain.SessionRepository
}

// NewRemoveItemHandler creates a new remove item handler.
func NewRemoveItemHandler(sessions domain.SessionRepository) *RemoveItemHandler {
	return &RemoveItemHandler{sessions: sessions}
}

// Handle executes the remove item command.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (*domain.Session, error) {
	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Cart.Remove(cmd.InventoryID); err != nil {
		return nil, err
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
