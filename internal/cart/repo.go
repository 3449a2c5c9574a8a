// Package cart persists the customer's active shopping cart and reconciles it
// after checkout by dropping purchased line items.
package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Save(ctx context.Context, c *Cart) error
	RemovePurchased(ctx context.Context, customerID string, productIDs []string) (*Cart, error)
}

type PGRepo struct{ db Querier }

func NewPGRepo(db Querier) *PGRepo { return &PGRepo{db: db} }

// Save upserts the cart row and replaces its items.
func (r *PGRepo) Save(ctx context.Context, c *Cart) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO carts (id, customer_id, total, created_at, updated_at)
		VALUES ($1,$2,$3,NOW(),NOW())
		ON CONFLICT (customer_id)
		DO UPDATE SET total = EXCLUDED.total, updated_at = NOW()
	`, c.ID, c.CustomerID, c.Total); err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = (SELECT id FROM carts WHERE customer_id=$1)
	`, c.CustomerID); err != nil {
		return err
	}
	for _, it := range c.Items {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO cart_items (id, cart_id, product_id, quantity, line_total)
			VALUES ($1, (SELECT id FROM carts WHERE customer_id=$2), $3, $4, $5)
		`, it.ID, c.CustomerID, it.ProductID, it.Quantity, it.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

// RemovePurchased deletes the cart items matching the purchased product ids and
// recomputes the cached total from the remaining items. An absent cart is a
// no-op, not an error: the customer may have checked out without one.
func (r *PGRepo) RemovePurchased(ctx context.Context, customerID string, productIDs []string) (*Cart, error) {
	var c Cart
	err := r.db.QueryRow(ctx, `
		SELECT id, customer_id, total::text, created_at, updated_at
		FROM carts WHERE customer_id=$1
		FOR UPDATE
	`, customerID).Scan(&c.ID, &c.CustomerID, &c.Total, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id=$1 AND product_id = ANY($2)
	`, c.ID, productIDs); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, cart_id, product_id, quantity, line_total::text
		FROM cart_items WHERE cart_id=$1
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.LineTotal); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	total, err := RecomputeTotal(c.Items)
	if err != nil {
		return nil, err
	}
	c.Total = total

	if _, err := r.db.Exec(ctx, `
		UPDATE carts SET total=$2, updated_at=NOW() WHERE id=$1
	`, c.ID, c.Total); err != nil {
		return nil, err
	}
	return &c, nil
}
