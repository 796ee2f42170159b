package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/kafka"
	"github.com/pushsport/pos/pkg/logger"
)

// CheckoutCommand represents the command to submit the cart as a sale.
type CheckoutCommand struct {
	SessionID     string
	PaymentMethod domain.PaymentMethod
}

// CheckoutResult carries the outcome of a completed checkout.
// StockWarning is set when the sale went through but the post-sale
// inventory refresh failed; the session then shows empty stock until the
// operator refreshes manually.
type CheckoutResult struct {
	Receipt      *domain.SaleReceipt
	Session      *domain.Session
	StockWarning string
}

// SaleEventPublisher publishes completed sales to the audit stream.
type SaleEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
}

// CheckoutHandler orchestrates the Idle -> Submitting -> (Completed |
// Failed) -> Idle flow. The submission is built from a cart snapshot
// taken when Submitting begins; a failed submission leaves the cart
// exactly as it was so the operator can retry.
type CheckoutHandler struct {
	sessions  domain.SessionRepository
	sales     domain.SalesGateway
	inventory domain.InventoryGateway
	publisher SaleEventPublisher
}

// NewCheckoutHandler creates a new checkout handler. publisher may be nil
// when the event stream is not configured.
func NewCheckoutHandler(sessions domain.SessionRepository, sales domain.SalesGateway, inventory domain.InventoryGateway, publisher SaleEventPublisher) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:  sessions,
		sales:     sales,
		inventory: inventory,
		publisher: publisher,
	}
}

// Handle executes the checkout command.
func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	if !cmd.PaymentMethod.Valid() {
		return nil, domain.ErrInvalidPayment
	}

	session, err := h.sessions.Find(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.BranchSelected() {
		return nil, domain.ErrNoBranchSelected
	}
	if session.Cart.IsEmpty() {
		// Rejected locally; the sales gateway is never called.
		return nil, domain.ErrEmptyCart
	}

	// Atomic Idle -> Submitting. A double-fired checkout loses here and
	// at most one submission is ever in flight for the session.
	if err := h.sessions.BeginCheckout(ctx, cmd.SessionID); err != nil {
		return nil, err
	}

	submission := domain.SaleSubmission{
		BranchID:      session.BranchID,
		OperatorID:    session.OperatorID,
		PaymentMethod: cmd.PaymentMethod,
		Total:         session.Cart.Total(),
		Lines:         session.Cart.Snapshot(),
	}

	receipt, err := h.sales.SubmitSale(ctx, submission)
	if err != nil {
		// Failed: back to Idle with the cart untouched for retry.
		if endErr := h.sessions.EndCheckout(ctx, cmd.SessionID); endErr != nil {
			logger.Logger.Error().
				Err(endErr).
				Str("session_id", cmd.SessionID).
				Msg("Failed to return session to idle after rejected sale")
		}
		return nil, err
	}

	// Completed: clear the cart, then re-fetch stock so the display
	// reflects the backend's decrement.
	session.Cart.Clear()
	session.Checkout = domain.CheckoutIdle
	touch(session)

	result := &CheckoutResult{Receipt: receipt}

	branchID, epoch := session.BranchID, session.StockEpoch
	records, fetchErr := h.inventory.FetchBranchStock(ctx, branchID)
	switch {
	case fetchErr != nil:
		logger.Logger.Warn().
			Err(fetchErr).
			Str("session_id", session.ID).
			Uint("branch_id", branchID).
			Msg("Post-sale stock refresh failed")
		session.Stock = nil
		result.StockWarning = fetchErr.Error()
	case !session.ApplyStock(branchID, epoch, records):
		// Cannot happen while Submitting blocks branch switches, but a
		// stale list must never be installed.
		session.Stock = nil
	}

	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session after checkout: %w", err)
	}
	if err := h.sessions.EndCheckout(ctx, cmd.SessionID); err != nil {
		logger.Logger.Error().
			Err(err).
			Str("session_id", cmd.SessionID).
			Msg("Failed to release checkout state")
	}

	h.publishSale(ctx, session, submission, receipt)

	logger.Logger.Info().
		Str("session_id", session.ID).
		Str("sale_id", receipt.SaleID).
		Uint("branch_id", submission.BranchID).
		Float64("total", submission.Total).
		Str("payment_method", string(submission.PaymentMethod)).
		Msg("Checkout completed")

	result.Session = session
	return result, nil
}

func (h *CheckoutHandler) publishSale(ctx context.Context, session *domain.Session, submission domain.SaleSubmission, receipt *domain.SaleReceipt) {
	if h.publisher == nil {
		return
	}

	event := kafka.SaleCompletedEvent{
		SaleID:        receipt.SaleID,
		SessionID:     session.ID,
		BranchID:      submission.BranchID,
		OperatorID:    submission.OperatorID,
		PaymentMethod: string(submission.PaymentMethod),
		Total:         submission.Total,
		Lines:         submission.Lines,
		Timestamp:     time.Now().UTC(),
	}

	// The sale is already persisted by the backend; a publish failure
	// only costs the audit entry.
	if err := h.publisher.PublishSaleCompleted(ctx, event); err != nil {
		logger.Logger.Error().
			Err(err).
			Str("sale_id", receipt.SaleID).
			Msg("Failed to publish sale completed event")
	}
}
