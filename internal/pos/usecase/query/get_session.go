package query

import (
	"context"

	"github.com/pushsport/pos/internal/pos/domain"
)

// GetSessionQuery represents the query for a session and its cart view.
type GetSessionQuery struct {
	SessionID string
}

// CartView is the cart plus its derived totals, recomputed on every read.
type CartView struct {
	Lines         []domain.CartLine `json:"lines"`
	LineCount     int               `json:"line_count"`
	TotalQuantity int               `json:"total_quantity"`
	Total         float64           `json:"total"`
}

// SessionView is what the terminal UI renders.
type SessionView struct {
	ID          string               `json:"id"`
	OperatorID  uint                 `json:"operator_id"`
	MultiBranch bool                 `json:"multi_branch"`
	BranchID    uint                 `json:"branch_id"`
	Checkout    domain.CheckoutState `json:"checkout"`
	Cart        CartView             `json:"cart"`
}

// NewSessionView builds the view for a session.
func NewSessionView(session *domain.Session) *SessionView {
	return &SessionView{
		ID:          session.ID,
		OperatorID:  session.OperatorID,
		MultiBranch: session.MultiBranch,
		BranchID:    session.BranchID,
		Checkout:    session.Checkout,
		Cart: CartView{
			Lines:         session.Cart.Lines,
			LineCount:     session.Cart.LineCount(),
			TotalQuantity: session.Cart.TotalQuantity(),
			Total:         session.Cart.Total(),
		},
	}
}

// GetSessionHandler handles the get session query.
type GetSessionHandler struct {
	sessions domain.SessionRepository
}

// NewGetSessionHandler creates a new get session handler.
func NewGetSessionHandler(sessions domain.SessionRepository) *GetSessionHandler {
	return &GetSessionHandler{sessions: sessions}
}

// Handle executes the get session query.
func (h *GetSessionHandler) Handle(ctx context.Context, q GetSessionQuery) (*SessionView, error) {
	session, err := h.sessions.Find(ctx, q.SessionID)
	if err != nil {
		return nil, err
	}
	return NewSessionView(session), nil
}
