package command

import (
	"context"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// CloseSessionCommand represents the command to close a terminal session.
type CloseSessionCommand struct {
	SessionID string
}

// CloseSessionHandler handles the close session command.
type CloseSessionHandler struct {
	sessions domain.SessionRepository
}

// NewCloseSessionHandler creates a new close session handler.
func NewCloseSessionHandler(sessions domain.SessionRepository) *CloseSessionHandler {
	return &CloseSessionHandler{sessions: sessions}
}

// Handle executes the close session command. A session with a submission
// in flight cannot be closed until the checkout resolves.
func (h *CloseSessionHandler) Handle(ctx context.Context, cmd CloseSessionCommand) error {
	session, err := h.sessions.Find(ctx, cmd.SessionID)
	if err != nil {
		return err
	}
	if session.Checkout == domain.CheckoutSubmitting {
		return domain.ErrCheckoutInFlight
	}

	if err := h.sessions.Delete(ctx, cmd.SessionID); err != nil {
		return err
	}

	logger.Logger.Info().
		Str("session_id", cmd.SessionID).
		Uint("operator_id", session.OperatorID).
		Msg("Terminal session closed")

	return nil
}
