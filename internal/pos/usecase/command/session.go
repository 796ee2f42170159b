package command

import (
	"context"
	"time"

	"github.com/pushsport/pos/internal/pos/domain"
)

// loadMutable fetches a session and checks it accepts cart mutations.
// While a checkout is submitting every cart edit is rejected, so an
// in-flight submission can never be altered from under the orchestrator.
func loadMutable(ctx context.Context, repo domain.SessionRepository, id string) (*domain.Session, error) {
	session, err := repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Checkout == domain.CheckoutSubmitting {
		return nil, domain.ErrCheckoutInFlight
	}
	return session, nil
}

func touch(session *domain.Session) {
	session.UpdatedAt = time.Now().UTC()
}
