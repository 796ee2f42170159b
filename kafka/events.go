package kafka

import (
	"time"

	"github.com/pushsport/pos/internal/pos/domain"
)

// SaleCompletedEvent represents a sale the backend acknowledged. It feeds
// the audit trail, not the stock arithmetic: stock is already decremented
// by the backend before this event is emitted.
type SaleCompletedEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	SaleID        string            `json:"sale_id"`
	SessionID     string            `json:"session_id"`
	BranchID      uint              `json:"branch_id"`
	OperatorID    uint              `json:"operator_id"`
	PaymentMethod string            `json:"payment_method"`
	Total         float64           `json:"total"`
	Lines         []domain.SaleLine `json:"lines"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleCompleted = "sale.completed"
)

// Kafka topics
const (
	TopicSaleCompleted = "sale-completed"
)
