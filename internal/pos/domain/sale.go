package domain

import "context"

// PaymentMethod is the fixed set of ways a sale can be paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// SaleLine is one (product, quantity, unit price) triple of a submission.
type SaleLine struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// SaleSubmission is the one-shot message sent to the sales gateway at
// checkout. It is built from a cart snapshot and never persisted locally;
// either the whole submission succeeds or the cart is left unchanged for
// retry.
type SaleSubmission struct {
	BranchID      uint          `json:"branch_id"`
	OperatorID    uint          `json:"operator_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         float64       `json:"total"`
	Lines         []SaleLine    `json:"lines"`
}

// SaleReceipt carries the server-assigned identifier of a persisted sale.
type SaleReceipt struct {
	SaleID string `json:"sale_id"`
}

// SalesGateway defines the contract for submitting a sale to the retail
// backend. The backend is the sole authority on whether stock was actually
// decremented; the POS performs no local decrement of its own.
type SalesGateway interface {
	SubmitSale(ctx context.Context, submission SaleSubmission) (*SaleReceipt, error)
}
