package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("payment not found")

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByIdempotencyKey returns nil, nil when no payment uses key.
	FindByIdempotencyKey(ctx context.Context, key string) (*Payment, error)
	Create(ctx context.Context, p *Payment) error
	Lock(ctx context.Context, key string) error
}

type UnitOfWork interface {
	Begin(ctx context.Context) (UnitOfWork, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Payments() Repository
}
