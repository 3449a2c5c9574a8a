// Package customer is the directory the order core consults: customer lookup
// for notification text and delivery-address existence checks.
package customer

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("customer not found")
	ErrAlreadyExist    = errors.New("customer already exists")
	ErrAddressNotFound = errors.New("delivery address not found")
)

type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	AddAddress(ctx context.Context, a *Address) error
	AddressExists(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db Querier }

func NewPGRepo(db Querier) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, c.ID, c.Username, c.Email, c.PasswordHash)
	if err != nil {
		// UNIQUE on username/email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM customers WHERE id=$1
	`, id).Scan(&c.ID, &c.Username, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *PGRepo) AddAddress(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO addresses (id, customer_id, line1, city, postal_code, country, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
	`, a.ID, a.CustomerID, a.Line1, a.City, a.PostalCode, a.Country)
	return err
}

func (r *PGRepo) AddressExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM addresses WHERE id=$1)
	`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
