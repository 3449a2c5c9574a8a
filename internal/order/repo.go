package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Reader is the read-only surface the HTTP layer uses.
type Reader interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error)
}

type PGRepo struct{ db Querier }

func NewPGRepo(db Querier) *PGRepo { return &PGRepo{db: db} }

// Insert persists the order together with its detail and items. It issues
// plain statements; atomicity comes from the transaction it runs inside.
func (r *PGRepo) Insert(ctx context.Context, o *Order) error {
	history, err := json.Marshal(o.Timestamps)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, customer_id, status, total, payment_method, payment_status, status_history, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
	`, o.ID, o.CustomerID, o.Status, o.Total, o.PaymentMethod, o.PaymentStatus, history); err != nil {
		return err
	}

	d := o.Detail
	if _, err := r.db.Exec(ctx, `
		INSERT INTO order_details (id, order_id, delivery_address_id, subtotal, tax, discount, final_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, o.ID, d.DeliveryAddressID, d.Subtotal, d.Tax, d.Discount, d.FinalPrice); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)
		`, it.ID, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
	}
	return nil
}

func scanOrder(row pgx.Row, o *Order) error {
	var history []byte
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.PaymentMethod,
		&o.PaymentStatus, &history, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	o.Timestamps = map[Status]time.Time{}
	return json.Unmarshal(history, &o.Timestamps)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	row := r.db.QueryRow(ctx, `
		SELECT id, customer_id, status, total::text, payment_method, payment_status, status_history, created_at, updated_at
		FROM orders WHERE id=$1
	`, id)
	if err := scanOrder(row, &o); err != nil {
		return nil, ErrNotFound
	}

	var d Detail
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, delivery_address_id, subtotal::text, tax::text, discount::text, final_price::text
		FROM order_details WHERE order_id=$1
	`, id).Scan(&d.ID, &d.OrderID, &d.DeliveryAddressID, &d.Subtotal, &d.Tax, &d.Discount, &d.FinalPrice)
	if err == nil {
		o.Detail = &d
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// GetForUpdate re-reads the order while locking its row, so concurrent status
// transitions on the same order serialize.
func (r *PGRepo) GetForUpdate(ctx context.Context, id string) (*Order, error) {
	var o Order
	row := r.db.QueryRow(ctx, `
		SELECT id, customer_id, status, total::text, payment_method, payment_status, status_history, created_at, updated_at
		FROM orders WHERE id=$1
		FOR UPDATE
	`, id)
	if err := scanOrder(row, &o); err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

// SetStatus writes the new status and appends its timestamp to the history in
// one statement, so a stamp is never written without the status moving.
func (r *PGRepo) SetStatus(ctx context.Context, id string, s Status, at time.Time) error {
	stamp, err := json.Marshal(map[Status]time.Time{s: at})
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, status_history = status_history || $3::jsonb, updated_at = NOW()
		WHERE id = $1
	`, id, s, stamp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, status, total::text, payment_method, payment_status, status_history, created_at, updated_at
		FROM orders WHERE customer_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var history []byte
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.PaymentMethod,
			&o.PaymentStatus, &history, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Timestamps = map[Status]time.Time{}
		if err := json.Unmarshal(history, &o.Timestamps); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
