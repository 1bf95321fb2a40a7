package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles the repositories handed to a transactional callback,
// all bound to the same transaction.
type Repositories struct {
	Users    UserRepository
	Sessions SessionRepository
	Tickets  TicketRepository
	History  TicketHistoryRepository
}

// TxRunner runs a callback inside one transaction. An error from the
// callback rolls back every write made through the bundle.
type TxRunner interface {
	InTx(ctx context.Context, fn func(r Repositories) error) error
}

type pgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner returns a pool-backed runner.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &pgxTxRunner{pool: pool}
}

func (r *pgxTxRunner) InTx(ctx context.Context, fn func(Repositories) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(Repositories{
			Users:    NewUserRepository(tx),
			Sessions: NewSessionRepository(tx),
			Tickets:  NewTicketRepository(tx),
			History:  NewTicketHistoryRepository(tx),
		})
	})
}
