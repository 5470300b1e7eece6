package issue

//go:generate mockgen -destination=mocks/payment.go -package=mocks github.com/Xausdorf/qr-platba/internal/domain/payment Repository,UnitOfWork

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Xausdorf/qr-platba/internal/domain/payment"
	"github.com/Xausdorf/qr-platba/internal/domain/spd"
	"github.com/Xausdorf/qr-platba/internal/infrastructure/metrics"
)

var ErrMissingIdempotencyKey = errors.New("idempotency key is required")

type Request struct {
	IdempotencyKey string
	Descriptor     *spd.Descriptor
}

type Response struct {
	ID         uuid.UUID
	Descriptor string
	CreatedAt  time.Time
	Replayed   bool
}

type UseCase struct {
	uow     payment.UnitOfWork
	metrics *metrics.Metrics
}

func NewUseCase(uow payment.UnitOfWork, m *metrics.Metrics) *UseCase {
	return &UseCase{uow: uow, metrics: m}
}

// Execute stores the serialized descriptor under the idempotency key. A
// repeated key returns the payment stored by the first call.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	switch {
	case err != nil:
		uc.metrics.ObserveIssue(metrics.OutcomeError)
	case resp.Replayed:
		uc.metrics.ObserveIssue(metrics.OutcomeReplayed)
	default:
		uc.metrics.ObserveIssue(metrics.OutcomeCreated)
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req Request) (*Response, error) {
	if req.IdempotencyKey == "" {
		return nil, ErrMissingIdempotencyKey
	}

	existing, err := uc.uow.Payments().FindByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toResponse(existing, true), nil
	}

	tx, err := uc.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.Payments().Lock(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	}

	existing, err = tx.Payments().FindByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toResponse(existing, true), nil
	}

	p := payment.NewPayment(req.IdempotencyKey, req.Descriptor.String())
	if err := tx.Payments().Create(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return toResponse(p, false), nil
}

func (uc *UseCase) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	p, err := uc.uow.Payments().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(p, false), nil
}

func toResponse(p *payment.Payment, replayed bool) *Response {
	return &Response{
		ID:         p.ID(),
		Descriptor: p.Descriptor(),
		CreatedAt:  p.CreatedAt(),
		Replayed:   replayed,
	}
}
