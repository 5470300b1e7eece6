package postgres

import (
	"context"
	_ "embed"
	"errors"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xausdorf/qr-platba/internal/domain/payment"
)

//go:embed schema.sql
var schema string

const (
	maxConns        = 10
	minConns        = 2
	maxConnLifetime = 30 * time.Minute
	maxConnIdleTime = 5 * time.Minute
)

// NewPool opens a pool to url and verifies the connection.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLifetime
	cfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Begin(ctx context.Context) (payment.UnitOfWork, error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{pool: u.pool, tx: tx}, nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}

func (u *UnitOfWork) Payments() payment.Repository {
	return &PaymentRepo{tx: u.tx, pool: u.pool}
}

type PaymentRepo struct {
	tx   pgx.Tx
	pool *pgxpool.Pool
}

func (r *PaymentRepo) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *PaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var (
		key, descriptor string
		createdAt       time.Time
	)
	err := r.q().QueryRow(ctx,
		`SELECT idempotency_key, descriptor, created_at FROM payments WHERE id = $1`,
		id,
	).Scan(&key, &descriptor, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payment.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payment.ReconstructPayment(id, key, descriptor, createdAt), nil
}

func (r *PaymentRepo) FindByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error) {
	var (
		id         uuid.UUID
		descriptor string
		createdAt  time.Time
	)
	err := r.q().QueryRow(ctx,
		`SELECT id, descriptor, created_at FROM payments WHERE idempotency_key = $1`,
		key,
	).Scan(&id, &descriptor, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payment.ReconstructPayment(id, key, descriptor, createdAt), nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	if r.tx == nil {
		return errors.New("create requires a transaction")
	}
	_, err := r.tx.Exec(ctx,
		`INSERT INTO payments (id, idempotency_key, descriptor, created_at)
		 VALUES ($1, $2, $3, $4)`,
		p.ID(), p.IdempotencyKey(), p.Descriptor(), p.CreatedAt(),
	)
	return err
}

// Lock takes a transaction-scoped advisory lock on the idempotency key.
func (r *PaymentRepo) Lock(ctx context.Context, key string) error {
	if r.tx == nil {
		return errors.New("lock requires a transaction")
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	_, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(h.Sum64()))
	return err
}
