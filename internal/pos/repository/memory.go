package repository

import (
	"context"
	"sync"

	"github.com/pushsport/pos/internal/pos/domain"
)

// MemorySessionRepository keeps sessions in process memory. It is the
// default store for a single-terminal deployment and the one tests use.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemorySessionRepository creates an empty in-memory session store.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*domain.Session),
	}
}

func (r *MemorySessionRepository) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session.Clone()
	return nil
}

// Find returns a detached copy; callers mutate it and persist with Save.
func (r *MemorySessionRepository) Find(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (r *MemorySessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// BeginCheckout atomically moves the session from Idle to Submitting.
// A session already Submitting gets ErrCheckoutInFlight, which is how a
// double-fired checkout is reduced to a single in-flight submission.
func (r *MemorySessionRepository) BeginCheckout(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if session.Checkout == domain.CheckoutSubmitting {
		return domain.ErrCheckoutInFlight
	}
	session.Checkout = domain.CheckoutSubmitting
	return nil
}

// EndCheckout returns the session to Idle whatever the outcome was.
func (r *MemorySessionRepository) EndCheckout(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Checkout = domain.CheckoutIdle
	return nil
}
