package command

import (
	"context"
	"fmt"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// RefreshStockCommand represents the command to re-fetch branch stock.
// This is the operator's manual recovery path after a failed fetch.
type RefreshStockCommand struct {
	SessionID string
}

// RefreshStockHandler handles the refresh stock command.
type RefreshStockHandler struct {
	sessions  domain.SessionRepository
	inventory domain.InventoryGateway
}

// NewRefreshStockHandler creates a new refresh stock handler.
func NewRefreshStockHandler(sessions domain.SessionRepository, inventory domain.InventoryGateway) *RefreshStockHandler {
	return &RefreshStockHandler{sessions: sessions, inventory: inventory}
}

// Handle executes the refresh stock command. Existing cart lines get
// their ceilings re-bound to the fresh quantities.
func (h *RefreshStockHandler) Handle(ctx context.Context, cmd RefreshStockCommand) (*domain.Session, error) {
	session, err := loadMutable(ctx, h.sessions, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.BranchSelected() {
		return nil, domain.ErrNoBranchSelected
	}

	branchID, epoch := session.BranchID, session.StockEpoch
	records, err := h.inventory.FetchBranchStock(ctx, branchID)
	if err != nil {
		return nil, err
	}

	session, err = h.sessions.Find(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.ApplyStock(branchID, epoch, records) {
		logger.Logger.Warn().
			Str("session_id", cmd.SessionID).
			Uint("fetched_branch", branchID).
			Msg("Discarded stale stock response")
		return nil, domain.ErrStaleStockFetch
	}
	touch(session)

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
