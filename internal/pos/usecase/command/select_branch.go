package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// SelectBranchCommand represents the command to switch a session's branch.
type SelectBranchCommand struct {
	SessionID string
	BranchID  uint
}

// SelectBranchHandler handles the select branch command.
type SelectBranchHandler struct {
	sessions  domain.SessionRepository
	inventory domain.InventoryGateway
}

// NewSelectBranchHandler creates a new select branch handler.
func NewSelectBranchHandler(sessions domain.SessionRepository, inventory domain.InventoryGateway) *SelectBranchHandler {
	return &SelectBranchHandler{sessions: sessions, inventory: inventory}
}

// Handle executes the select branch command. The cleared cart is persisted
// before the inventory fetch, so no line from the old branch can survive
// even when the fetch fails. A response that comes back after another
// switch started is discarded by the epoch guard.
func (h *SelectBranchHandler) Handle(ctx context.Context, cmd SelectBranchCommand) (*domain.Session, error) {
	if cmd.BranchID == 0 {
		return nil, fmt.Errorf("branch_id is required")
	}

	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}

	if err := session.SelectBranch(cmd.BranchID); err != nil {
		return nil, err
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	branchID, epoch := session.BranchID, session.StockEpoch
	records, err := h.inventory.FetchBranchStock(ctx, branchID)
	if err != nil {
		return nil, err
	}

	// Reload before applying: the session may have moved on while the
	// fetch was in flight.
	session, err = h.sessions.Find(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.ApplyStock(branchID, epoch, records) {
		logger.Logger.Warn().
			Str("session_id", cmd.SessionID).
			Uint("fetched_branch", branchID).
			Uint("current_branch", session.BranchID).
			Msg("Discarded stale stock response")
		return nil, domain.ErrStaleStockFetch
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	logger.Logger.Info().
		Str("session_id", session.ID).
		Uint("branch_id", branchID).
		Int("stock_records", len(records)).
		Msg("Branch selected")

	return session, nil
}
