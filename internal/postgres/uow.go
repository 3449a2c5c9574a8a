package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshh13/GreenCart-sub000/internal/cart"
	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/order"
)

// UnitOfWork implements order.UnitOfWork over a single pgx transaction. Every
// store handed to fn is bound to that transaction, so all writes commit or
// roll back together.
type UnitOfWork struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewUnitOfWork(pool *pgxpool.Pool, timeout time.Duration) *UnitOfWork {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &UnitOfWork{pool: pool, timeout: timeout}
}

func (u *UnitOfWork) Run(ctx context.Context, fn func(ops order.Ops) error) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &order.TransactionError{Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txOps{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &order.TransactionError{Err: err}
	}
	return nil
}

type txOps struct{ tx pgx.Tx }

func (o txOps) Ledger() catalog.Ledger          { return catalog.NewPGRepo(o.tx) }
func (o txOps) Products() order.ProductReader   { return catalog.NewPGRepo(o.tx) }
func (o txOps) Orders() order.TxStore           { return order.NewPGRepo(o.tx) }
func (o txOps) Carts() order.CartReconciler     { return cart.NewPGRepo(o.tx) }
func (o txOps) Addresses() order.AddressChecker { return customer.NewPGRepo(o.tx) }
