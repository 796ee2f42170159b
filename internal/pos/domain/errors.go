package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for cart and checkout rules. All of them are recoverable
// by a subsequent operator action; none should surface as a 5xx.
var (
	ErrOutOfStock        = errors.New("product has no stock at this branch")
	ErrStockNotFound     = errors.New("stock record not found at this branch")
	ErrStockCeiling      = errors.New("quantity would exceed on-hand stock")
	ErrLineNotFound      = errors.New("cart line not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCheckoutInFlight  = errors.New("a checkout is already in progress")
	ErrNoBranchSelected  = errors.New("no branch selected")
	ErrBranchNotAllowed  = errors.New("operator is not allowed to switch branch")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrStaleStockFetch   = errors.New("stock response is stale and was discarded")
)

// StockFetchError wraps a failed inventory fetch for a branch.
type StockFetchError struct {
	BranchID uint
	Err      error
}

func (e *StockFetchError) Error() string {
	return fmt.Sprintf("failed to fetch stock for branch %d: %v", e.BranchID, e.Err)
}

func (e *StockFetchError) Unwrap() error {
	return e.Err
}

// SaleSubmissionError wraps a rejected or failed sale submission. Reason
// carries whatever the sales gateway reported, so the operator sees why
// the sale did not go through.
type SaleSubmissionError struct {
	Reason string
	Err    error
}

func (e *SaleSubmissionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("sale submission rejected: %s", e.Reason)
	}
	return fmt.Sprintf("sale submission failed: %v", e.Err)
}

func (e *SaleSubmissionError) Unwrap() error {
	return e.Err
}
