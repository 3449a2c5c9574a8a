// Package catalog provides product lookup and the inventory ledger: stock is
// mutated only through Reserve/Release, never by direct writes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("product not found")

// InsufficientStockError reports which product could not cover the requested
// quantity and how much was actually available.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so the same repository
// runs standalone or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
}

type Ledger interface {
	Reserve(ctx context.Context, productID string, quantity int) (*Reservation, error)
	Release(ctx context.Context, productID string, quantity int) error
}

type PGRepo struct{ db Querier }

func NewPGRepo(db Querier) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, category, price, stock, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, category, price::text, stock, created_at, updated_at
		FROM products WHERE id=$1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Reserve decrements stock iff enough is available, as a single conditional
// update. Two concurrent reservations for the last units serialize on the row;
// at most one wins.
func (r *PGRepo) Reserve(ctx context.Context, productID string, quantity int) (*Reservation, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("reserve quantity must be positive, got %d", quantity)
	}

	res := Reservation{ProductID: productID, Quantity: quantity}
	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
		RETURNING stock, price::text
	`, productID, quantity).Scan(&res.Remaining, &res.UnitPrice)
	if err == nil {
		return &res, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No row matched: either the product is unknown or the stock ran short.
	var available int
	if err := r.db.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&available); err != nil {
		return nil, ErrNotFound
	}
	return nil, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: available}
}

// Release restores previously reserved stock. Used only as a compensating
// action when a later step of the same checkout fails.
func (r *PGRepo) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("release quantity must be positive, got %d", quantity)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
	`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
