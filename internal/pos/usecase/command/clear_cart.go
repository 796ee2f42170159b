package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
)

// ClearCartCommand represents the command to empty the cart.
type ClearCartCommand struct {
	SessionID string
}

// ClearCartHandler handles the clear cart command.
type ClearCartHandler struct {
	sessions domain.SessionRepository
}

// NewClearCartHandler creates a new clear cart handler.
func NewClearCartHandler(sessions domain.SessionRepository) *ClearCartHandler {
	return &ClearCartHandler{sessions: sessions}
}

// Handle executes the clear cart command.
func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) (*domain.Session, error) {
	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	session.Cart.Clear()
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
