package order

import (
	"context"
	"time"

	"github.com/vanshh13/GreenCart-sub000/internal/cart"
	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
)

// UnitOfWork runs fn as one atomic unit: every write made through ops is
// durable iff fn returns nil and the commit succeeds; otherwise none are.
// The Postgres implementation lives in internal/postgres.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ops Ops) error) error
}

// Ops exposes the stores participating in one unit of work. All of them see
// and produce the same transactional state.
type Ops interface {
	Ledger() catalog.Ledger
	Products() ProductReader
	Orders() TxStore
	Carts() CartReconciler
	Addresses() AddressChecker
}

type ProductReader interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// TxStore is the write surface the coordinator and the status machine use
// inside a unit of work.
type TxStore interface {
	Insert(ctx context.Context, o *Order) error
	GetForUpdate(ctx context.Context, id string) (*Order, error)
	SetStatus(ctx context.Context, id string, s Status, at time.Time) error
}

type CartReconciler interface {
	RemovePurchased(ctx context.Context, customerID string, productIDs []string) (*cart.Cart, error)
}

type AddressChecker interface {
	AddressExists(ctx context.Context, id string) (bool, error)
}

// CustomerDirectory resolves customer display names for notification text.
// Consulted outside the transaction; failures degrade the message, never the
// order.
type CustomerDirectory interface {
	GetByID(ctx context.Context, id string) (*customer.Customer, error)
}
