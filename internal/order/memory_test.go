package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vanshh13/GreenCart-sub000/internal/cart"
	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/notify"
)

// memStore is an in-memory UnitOfWork: Run serializes units of work and
// restores a snapshot when fn fails, mirroring a database rollback. It lets
// the coordinator and status machine tests prove atomicity without Postgres.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*catalog.Product
	addresses map[string]bool
	orders    map[string]*Order
	carts     map[string]*cart.Cart
}

func newMemStore() *memStore {
	return &memStore{
		products:  map[string]*catalog.Product{},
		addresses: map[string]bool{},
		orders:    map[string]*Order{},
		carts:     map[string]*cart.Cart{},
	}
}

func (s *memStore) Run(_ context.Context, fn func(Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(memOps{s}); err != nil {
		s.products, s.addresses, s.orders, s.carts = snap.products, snap.addresses, snap.orders, snap.carts
		return err
	}
	return nil
}

type memSnapshot struct {
	products  map[string]*catalog.Product
	addresses map[string]bool
	orders    map[string]*Order
	carts     map[string]*cart.Cart
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		products:  map[string]*catalog.Product{},
		addresses: map[string]bool{},
		orders:    map[string]*Order{},
		carts:     map[string]*cart.Cart{},
	}
	for k, v := range s.products {
		cp := *v
		snap.products[k] = &cp
	}
	for k, v := range s.addresses {
		snap.addresses[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = cloneOrder(v)
	}
	for k, v := range s.carts {
		snap.carts[k] = cloneCart(v)
	}
	return snap
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Timestamps = map[Status]time.Time{}
	for k, v := range o.Timestamps {
		cp.Timestamps[k] = v
	}
	cp.Items = append([]Item(nil), o.Items...)
	if o.Detail != nil {
		d := *o.Detail
		cp.Detail = &d
	}
	return &cp
}

func cloneCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	return &cp
}

// memOps implements Ops and each of its store interfaces directly.
type memOps struct{ s *memStore }

func (o memOps) Ledger() catalog.Ledger    { return o }
func (o memOps) Products() ProductReader   { return o }
func (o memOps) Orders() TxStore           { return o }
func (o memOps) Carts() CartReconciler     { return o }
func (o memOps) Addresses() AddressChecker { return o }

func (o memOps) Reserve(_ context.Context, productID string, qty int) (*catalog.Reservation, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}
	p, ok := o.s.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	if p.Stock < qty {
		return nil, &catalog.InsufficientStockError{ProductID: productID, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	return &catalog.Reservation{ProductID: productID, Quantity: qty, Remaining: p.Stock, UnitPrice: p.Price}, nil
}

func (o memOps) Release(_ context.Context, productID string, qty int) error {
	p, ok := o.s.products[productID]
	if !ok {
		return catalog.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func (o memOps) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := o.s.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (o memOps) Insert(_ context.Context, ord *Order) error {
	if _, exists := o.s.orders[ord.ID]; exists {
		return fmt.Errorf("duplicate order id %s", ord.ID)
	}
	o.s.orders[ord.ID] = cloneOrder(ord)
	return nil
}

func (o memOps) GetForUpdate(_ context.Context, id string) (*Order, error) {
	ord, ok := o.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(ord), nil
}

func (o memOps) SetStatus(_ context.Context, id string, s Status, at time.Time) error {
	ord, ok := o.s.orders[id]
	if !ok {
		return ErrNotFound
	}
	ord.Status = s
	ord.Timestamps[s] = at
	ord.UpdatedAt = at
	return nil
}

func (o memOps) RemovePurchased(_ context.Context, customerID string, productIDs []string) (*cart.Cart, error) {
	c, ok := o.s.carts[customerID]
	if !ok {
		return nil, nil
	}
	purchased := map[string]bool{}
	for _, id := range productIDs {
		purchased[id] = true
	}
	var kept []cart.Item
	for _, it := range c.Items {
		if !purchased[it.ProductID] {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	total, err := cart.RecomputeTotal(kept)
	if err != nil {
		return nil, err
	}
	c.Total = total
	return cloneCart(c), nil
}

func (o memOps) AddressExists(_ context.Context, id string) (bool, error) {
	return o.s.addresses[id], nil
}

// memCustomers resolves display names for notification text.
type memCustomers struct{ names map[string]string }

func (m memCustomers) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	name, ok := m.names[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &customer.Customer{ID: id, Username: name}, nil
}

// memNotifier records emitted events.
type memNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *memNotifier) Emit(_ context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *memNotifier) all() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event(nil), n.events...)
}
