package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
)

// AdjustQuantityCommand represents the command to step a cart line's
// quantity by a delta (the UI sends ±1 from its step controls).
type AdjustQuantityCommand struct {
	SessionID   string
	InventoryID uint
	Delta       int
}

// AdjustQuantityHandler handles the adjust quantity command.
type AdjustQuantityHandler struct {
	sessions domain.SessionRepository
}

// NewAdjustQuantityHandler creates a new adjust quantity handler.
func NewAdjustQuantityHandler(sessions domain.SessionRepository) *AdjustQuantityHandler {
	return &AdjustQuantityHandler{sessions: sessions}
}

// Handle executes the adjust quantity command.
func (h *AdjustQuantityHandler) Handle(ctx context.Context, cmd AdjustQuantityCommand) (*domain.Session, error) {
	if cmd.Delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Cart.AdjustQuantity(cmd.InventoryID, cmd.Delta); err != nil {
		return nil, err
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
