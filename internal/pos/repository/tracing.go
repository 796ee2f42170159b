package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pushsport/pos/internal/pos/domain"
)

var tracer = otel.Tracer("pos-session-repository")

// TracedSessionRepository wraps a session repository with a span per call.
type TracedSessionRepository struct {
	inner domain.SessionRepository
}

// NewTracedSessionRepository decorates a repository with tracing.
func NewTracedSessionRepository(inner domain.SessionRepository) *TracedSessionRepository {
	return &TracedSessionRepository{inner: inner}
}

func (r *TracedSessionRepository) span(ctx context.Context, op, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "session_repository."+op,
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
		),
	)
}

func record(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (r *TracedSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := r.span(ctx, "Create", session.ID)
	defer span.End()

	err := r.inner.Create(ctx, session)
	record(span, err)
	return err
}

func (r *TracedSessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	ctx, span := r.span(ctx, "Find", id)
	defer span.End()

	session, err := r.inner.Find(ctx, id)
	record(span, err)
	if session != nil {
		span.SetAttributes(
			attribute.Int("session.branch_id", int(session.BranchID)),
			attribute.Int("session.cart_lines", session.Cart.LineCount()),
		)
	}
	return session, err
}

func (r *TracedSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	ctx, span := r.span(ctx, "Save", session.ID)
	defer span.End()

	err := r.inner.Save(ctx, session)
	record(span, err)
	return err
}

func (r *TracedSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.span(ctx, "Delete", id)
	defer span.End()

	err := r.inner.Delete(ctx, id)
	record(span, err)
	return err
}

func (r *TracedSessionRepository) BeginCheckout(ctx context.Context, id string) error {
	ctx, span := r.span(ctx, "BeginCheckout", id)
	defer span.End()

	err := r.inner.BeginCheckout(ctx, id)
	record(span, err)
	return err
}

func (r *TracedSessionRepository) EndCheckout(ctx context.Context, id string) error {
	ctx, span := r.span(ctx, "EndCheckout", id)
	defer span.End()

	err := r.inner.EndCheckout(ctx, id)
	record(span, err)
	return err
}
