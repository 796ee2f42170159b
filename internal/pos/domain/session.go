package domain

import (
	"context"
	"time"
)

// CheckoutState is the orchestrator state of a session. Idle is the only
// state in which cart mutations and a new checkout are accepted.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
)

// Session is one POS terminal's working state: the operator behind it,
// the branch it sells from, the stock fetched for that branch and the
// in-progress cart. A single-branch operator is bound to their branch at
// session open; a multi-branch operator starts unbound and must select a
// branch before any stock is visible.
type Session struct {
	ID          string        `json:"id"`
	OperatorID  uint          `json:"operator_id"`
	MultiBranch bool          `json:"multi_branch"`
	BranchID    uint          `json:"branch_id"`
	StockEpoch  uint64        `json:"stock_epoch"`
	Stock       []StockRecord `json:"stock"`
	Cart        Cart          `json:"cart"`
	Checkout    CheckoutState `json:"checkout"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BranchSelected reports whether the session has a branch to sell from.
func (s *Session) BranchSelected() bool {
	return s.BranchID != 0
}

// StockByInventoryID looks up a record in the last fetched stock list.
func (s *Session) StockByInventoryID(inventoryID uint) (StockRecord, bool) {
	for _, rec := range s.Stock {
		if rec.InventoryID == inventoryID {
			return rec, true
		}
	}
	return StockRecord{}, false
}

// SelectBranch switches the session to a branch. Only multi-branch
// operators may move to a branch other than the one they were opened
// with. The cart and stock are cleared atomically with the switch so no
// line from the old branch survives, and the stock epoch is bumped so an
// inventory response still in flight for the old branch is discarded.
func (s *Session) SelectBranch(branchID uint) error {
	if !s.MultiBranch && branchID != s.BranchID {
		return ErrBranchNotAllowed
	}

	s.BranchID = branchID
	s.StockEpoch++
	s.Stock = nil
	s.Cart.Clear()
	return nil
}

// ApplyStock installs a fetched stock list if it is still current: the
// session must still be on the branch the fetch was issued for and no
// newer epoch may have started. Returns false for a stale response.
func (s *Session) ApplyStock(branchID uint, epoch uint64, records []StockRecord) bool {
	if s.BranchID != branchID || s.StockEpoch != epoch {
		return false
	}

	s.Stock = records
	s.Cart.RefreshCeilings(records)
	return true
}

// Clone returns a deep copy of the session, detaching cart lines and
// stock records from the original.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Stock = append([]StockRecord(nil), s.Stock...)
	clone.Cart = Cart{Lines: append([]CartLine(nil), s.Cart.Lines...)}
	return &clone
}

// SessionRepository defines the contract for session storage.
// BeginCheckout must be an atomic Idle to Submitting transition: two
// concurrent checkouts on the same session can never both pass it.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	BeginCheckout(ctx context.Context, id string) error
	EndCheckout(ctx context.Context, id string) error
}
