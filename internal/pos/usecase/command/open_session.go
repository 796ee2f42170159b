package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/pkg/logger"
)

// OpenSessionCommand represents the command to open a terminal session.
// Single-branch operators arrive with their branch already bound; a
// multi-branch operator opens unbound and selects a branch afterwards.
type OpenSessionCommand struct {
	OperatorID  uint
	MultiBranch bool
	BranchID    uint
}

// OpenSessionResult carries the created session. StockWarning is set when
// the session is bound to a branch but the initial stock fetch failed;
// the session still opens and the operator recovers with a manual refresh.
type OpenSessionResult struct {
	Session      *domain.Session
	StockWarning string
}

// OpenSessionHandler handles the open session command.
type OpenSessionHandler struct {
	sessions  domain.SessionRepository
	inventory domain.InventoryGateway
}

// NewOpenSessionHandler creates a new open session handler.
func NewOpenSessionHandler(sessions domain.SessionRepository, inventory domain.InventoryGateway) *OpenSessionHandler {
	return &OpenSessionHandler{sessions: sessions, inventory: inventory}
}

// Handle executes the open session command.
func (h *OpenSessionHandler) Handle(ctx context.Context, cmd OpenSessionCommand) (*OpenSessionResult, error) {
	if cmd.OperatorID == 0 {
		return nil, fmt.Errorf("operator_id is required")
	}
	if !cmd.MultiBranch && cmd.BranchID == 0 {
		return nil, fmt.Errorf("branch_id is required for a single-branch operator")
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:          uuid.NewString(),
		OperatorID:  cmd.OperatorID,
		MultiBranch: cmd.MultiBranch,
		BranchID:    cmd.BranchID,
		Checkout:    domain.CheckoutIdle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result := &OpenSessionResult{Session: session}

	if session.BranchSelected() {
		records, err := h.inventory.FetchBranchStock(ctx, session.BranchID)
		if err != nil {
			logger.Logger.Warn().
				Err(err).
				Uint("branch_id", session.BranchID).
				Msg("Initial stock fetch failed, session opens with empty stock")
			result.StockWarning = err.Error()
		} else {
			session.Stock = records
		}
	}

	if err := h.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Logger.Info().
		Str("session_id", session.ID).
		Uint("operator_id", session.OperatorID).
		Uint("branch_id", session.BranchID).
		Bool("multi_branch", session.MultiBranch).
		Msg("Terminal session opened")

	return result, nil
}
