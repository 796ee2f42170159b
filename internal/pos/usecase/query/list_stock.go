package query

import (
	"context"

	"github.com/pushsport/pos/internal/pos/domain"
)

// ListStockQuery represents the query for a session's last fetched stock.
type ListStockQuery struct {
	SessionID string
}

// ListStockHandler handles the list stock query.
type ListStockHandler struct {
	sessions domain.SessionRepository
}

// NewListStockHandler creates a new list stock handler.
func NewListStockHandler(sessions domain.SessionRepository) *ListStockHandler {
	return &ListStockHandler{sessions: sessions}
}

// Handle executes the list stock query. No branch means no stock is
// visible yet; the caller must select a branch first.
func (h *ListStockHandler) Handle(ctx context.Context, q ListStockQuery) ([]domain.StockRecord, error) {
	session, err := h.sessions.Find(ctx, q.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.BranchSelected() {
		return nil, domain.ErrNoBranchSelected
	}

	records := session.Stock
	if records == nil {
		records = []domain.StockRecord{}
	}
	return records, nil
}
