package main

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshh13/GreenCart-sub000/internal/cart"
	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
)

// Fixed ids so the demo data is curl-able right after startup.
const (
	seedCustomerID = "b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"
	seedAddressID  = "0d1f7a64-93f0-4a3e-8f0e-2a55f2b9d101"
	seedProductAID = "4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"
	seedProductBID = "9c2708f3-55a8-4b1a-bd94-63a07cf0a2d4"
	seedCartID     = "7a7e3a24-1c1e-4f7c-92e1-bf0e5a0f6c88"
)

// seedDemoData loads a demo customer with an address, two products and a
// stocked cart. Re-running against an already seeded database is a no-op.
func seedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	customers := customer.NewPGRepo(pool)
	hash, err := customer.HashPassword("greencart-demo")
	if err != nil {
		return err
	}
	err = customers.Create(ctx, &customer.Customer{
		ID:           seedCustomerID,
		Username:     "demo-shopper",
		Email:        "demo@greencart.local",
		PasswordHash: hash,
	})
	if errors.Is(err, customer.ErrAlreadyExist) {
		log.Printf("[seed] demo data already present")
		return nil
	}
	if err != nil {
		return err
	}
	if err := customers.AddAddress(ctx, &customer.Address{
		ID:         seedAddressID,
		CustomerID: seedCustomerID,
		Line1:      "42 Market Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}); err != nil {
		return err
	}

	products := catalog.NewPGRepo(pool)
	for _, p := range []catalog.Product{
		{ID: seedProductAID, Name: "Mechanical Keyboard", Description: "RGB 60%", Category: "peripherals", Price: "100.00", Stock: 5},
		{ID: seedProductBID, Name: "USB-C Hub", Category: "peripherals", Price: "49.90", Stock: 12},
	} {
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}

	carts := cart.NewPGRepo(pool)
	items := []cart.Item{
		{ID: "5d7f0f39-9a24-4a6d-9f69-6e9c3a0c1a01", CartID: seedCartID, ProductID: seedProductAID, Quantity: 2, LineTotal: "200.00"},
		{ID: "5d7f0f39-9a24-4a6d-9f69-6e9c3a0c1a02", CartID: seedCartID, ProductID: seedProductBID, Quantity: 1, LineTotal: "49.90"},
	}
	total, err := cart.RecomputeTotal(items)
	if err != nil {
		return err
	}
	if err := carts.Save(ctx, &cart.Cart{
		ID:         seedCartID,
		CustomerID: seedCustomerID,
		Total:      total,
		Items:      items,
	}); err != nil {
		return err
	}

	log.Printf("[seed] demo customer=%s product=%s", seedCustomerID, seedProductAID)
	return nil
}
