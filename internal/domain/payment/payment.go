package payment

import (
	"time"

	"github.com/google/uuid"
)

// Payment is a serialized payment descriptor issued under an idempotency key.
type Payment struct {
	id             uuid.UUID
	idempotencyKey string
	descriptor     string
	createdAt      time.Time
}

func NewPayment(idempotencyKey, descriptor string) *Payment {
	return &Payment{
		id:             uuid.New(),
		idempotencyKey: idempotencyKey,
		descriptor:     descriptor,
		createdAt:      time.Now(),
	}
}

func ReconstructPayment(id uuid.UUID, idempotencyKey, descriptor string, createdAt time.Time) *Payment {
	return &Payment{
		id:             id,
		idempotencyKey: idempotencyKey,
		descriptor:     descriptor,
		createdAt:      createdAt,
	}
}

func (p *Payment) ID() uuid.UUID {
	return p.id
}

func (p *Payment) IdempotencyKey() string {
	return p.idempotencyKey
}

func (p *Payment) Descriptor() string {
	return p.descriptor
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}
