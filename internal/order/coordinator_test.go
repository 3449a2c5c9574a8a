package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vanshh13/GreenCart-sub000/internal/cart"
	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/notify"
)

const (
	custID = "cust-1"
	addrID = "addr-1"
	prodA  = "prod-a"
	prodB  = "prod-b"
	prodC  = "prod-c"
)

func newTestCoordinator(store *memStore) (*Coordinator, *memNotifier) {
	notifier := &memNotifier{}
	customers := memCustomers{names: map[string]string{custID: "demo-shopper"}}
	return NewCoordinator(store, customers, notifier, time.Second), notifier
}

// seedStore returns a store with product A (price 100.00, stock 5), product B
// (price 49.90, stock 1) and a cart holding 2xA and 1xB.
func seedStore() *memStore {
	s := newMemStore()
	s.addresses[addrID] = true
	s.products[prodA] = &catalog.Product{ID: prodA, Name: "Keyboard", Price: "100.00", Stock: 5}
	s.products[prodB] = &catalog.Product{ID: prodB, Name: "Hub", Price: "49.90", Stock: 1}
	s.carts[custID] = &cart.Cart{
		ID:         "cart-1",
		CustomerID: custID,
		Total:      "249.90",
		Items: []cart.Item{
			{ID: "ci-1", CartID: "cart-1", ProductID: prodA, Quantity: 2, LineTotal: "200.00"},
			{ID: "ci-2", CartID: "cart-1", ProductID: prodB, Quantity: 1, LineTotal: "49.90"},
		},
	}
	return s
}

func checkoutRequest(items ...CreateOrderItem) CreateOrderRequest {
	return CreateOrderRequest{
		OrderItems:    items,
		TotalPrice:    "0.00",
		PaymentMethod: "card",
		Detail:        CreateOrderDetail{DeliveryAddress: addrID},
	}
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, notifier := newTestCoordinator(store)

	o, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 2},
	))
	require.NoError(t, err)

	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, "200.00", o.Total)
	require.Equal(t, PaymentStatusUnpaid, o.PaymentStatus)
	require.Len(t, o.Items, 1)
	require.Equal(t, "100.00", o.Items[0].Price)
	require.NotZero(t, o.Timestamps[StatusPending])

	require.NotNil(t, o.Detail)
	require.Equal(t, "200.00", o.Detail.Subtotal)
	require.Equal(t, "200.00", o.Detail.FinalPrice)
	require.Equal(t, addrID, o.Detail.DeliveryAddressID)

	// Stock went from 5 to 3.
	require.Equal(t, 3, store.products[prodA].Stock)
	// Order persisted.
	require.Contains(t, store.orders, o.ID)

	// Cart now holds only product B.
	c := store.carts[custID]
	require.Len(t, c.Items, 1)
	require.Equal(t, prodB, c.Items[0].ProductID)
	require.Equal(t, "49.90", c.Total)

	events := notifier.all()
	require.Len(t, events, 1)
	require.Equal(t, notify.TypeOrderPlaced, events[0].Type)
	require.Contains(t, events[0].Message, "demo-shopper")
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, notifier := newTestCoordinator(store)

	_, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 10},
	))

	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, prodA, stockErr.ProductID)
	require.Equal(t, 5, stockErr.Available)

	// Nothing changed, nothing was emitted.
	require.Equal(t, 5, store.products[prodA].Stock)
	require.Empty(t, store.orders)
	require.Len(t, store.carts[custID].Items, 2)
	require.Empty(t, notifier.all())
}

func TestPlaceOrder_SecondLineFailureRevertsFirst(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)

	// Product B has stock 1; asking for 2 fails after A was already reserved.
	_, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 2},
		CreateOrderItem{Product: prodB, Quantity: 2},
	))

	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, prodB, stockErr.ProductID)

	// Post-failure stock equals pre-checkout stock for both products.
	require.Equal(t, 5, store.products[prodA].Stock)
	require.Equal(t, 1, store.products[prodB].Stock)
	require.Empty(t, store.orders)
	require.Len(t, store.carts[custID].Items, 2)
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)
	ctx := context.Background()

	oneItem := checkoutRequest(CreateOrderItem{Product: prodA, Quantity: 1})
	cases := []struct {
		name       string
		customerID string
		mutate     func(r *CreateOrderRequest)
	}{
		{name: "no items", customerID: custID, mutate: func(r *CreateOrderRequest) { r.OrderItems = nil }},
		{name: "no customer", customerID: ""},
		{name: "zero quantity", customerID: custID, mutate: func(r *CreateOrderRequest) { r.OrderItems[0].Quantity = 0 }},
		{name: "negative quantity", customerID: custID, mutate: func(r *CreateOrderRequest) { r.OrderItems[0].Quantity = -3 }},
		{name: "missing product", customerID: custID, mutate: func(r *CreateOrderRequest) { r.OrderItems[0].Product = "" }},
		{name: "no payment method", customerID: custID, mutate: func(r *CreateOrderRequest) { r.PaymentMethod = "" }},
		{name: "no address", customerID: custID, mutate: func(r *CreateOrderRequest) { r.Detail.DeliveryAddress = "" }},
		{name: "malformed tax", customerID: custID, mutate: func(r *CreateOrderRequest) { r.Detail.Tax = "abc" }},
		{name: "negative discount", customerID: custID, mutate: func(r *CreateOrderRequest) { r.Detail.Discount = "-1" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := oneItem
			req.OrderItems = append([]CreateOrderItem(nil), oneItem.OrderItems...)
			if tc.mutate != nil {
				tc.mutate(&req)
			}
			_, err := coord.PlaceOrder(ctx, tc.customerID, req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	// No state change from any of the rejected calls.
	require.Equal(t, 5, store.products[prodA].Stock)
	require.Empty(t, store.orders)
}

func TestPlaceOrder_UnknownAddress(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)

	req := checkoutRequest(CreateOrderItem{Product: prodA, Quantity: 1})
	req.Detail.DeliveryAddress = "addr-missing"
	_, err := coord.PlaceOrder(context.Background(), custID, req)
	require.ErrorIs(t, err, customer.ErrAddressNotFound)
	require.Equal(t, 5, store.products[prodA].Stock)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)

	_, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: "prod-missing", Quantity: 1},
	))
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestPlaceOrder_TaxAndDiscount(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)

	req := checkoutRequest(CreateOrderItem{Product: prodA, Quantity: 2})
	req.Detail.Tax = "1.50"
	req.Detail.Discount = "0.50"
	o, err := coord.PlaceOrder(context.Background(), custID, req)
	require.NoError(t, err)

	require.Equal(t, "200.00", o.Detail.Subtotal)
	require.Equal(t, "1.50", o.Detail.Tax)
	require.Equal(t, "0.50", o.Detail.Discount)
	require.Equal(t, "201.00", o.Detail.FinalPrice)
}

func TestPlaceOrder_PriceImmutability(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)

	o, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 2},
	))
	require.NoError(t, err)

	// A later price change must not leak into the recorded order.
	store.products[prodA].Price = "999.99"

	persisted := store.orders[o.ID]
	require.Equal(t, "100.00", persisted.Items[0].Price)
	require.Equal(t, "200.00", persisted.Total)
}

func TestPlaceOrder_CartKeepsUnpurchasedItems(t *testing.T) {
	t.Parallel()

	store := seedStore()
	store.products[prodC] = &catalog.Product{ID: prodC, Name: "Mouse Pad", Price: "15.00", Stock: 9}
	c := store.carts[custID]
	c.Items = append(c.Items, cart.Item{ID: "ci-3", CartID: c.ID, ProductID: prodC, Quantity: 1, LineTotal: "15.00"})
	c.Total = "264.90"
	coord, _ := newTestCoordinator(store)

	_, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 2},
		CreateOrderItem{Product: prodB, Quantity: 1},
	))
	require.NoError(t, err)

	got := store.carts[custID]
	require.Len(t, got.Items, 1)
	require.Equal(t, prodC, got.Items[0].ProductID)
	require.Equal(t, "15.00", got.Total)
}

func TestPlaceOrder_SequentialCheckouts(t *testing.T) {
	t.Parallel()

	store := seedStore()
	coord, _ := newTestCoordinator(store)
	ctx := context.Background()

	o, err := coord.PlaceOrder(ctx, custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 2},
	))
	require.NoError(t, err)
	require.Equal(t, "200.00", o.Total)
	require.Equal(t, 3, store.products[prodA].Stock)

	// A second checkout over the remaining stock is rejected and leaves it
	// where the first left it.
	_, err = coord.PlaceOrder(ctx, custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 10},
	))
	var stockErr *catalog.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, 3, stockErr.Available)
	require.Equal(t, 3, store.products[prodA].Stock)
}

func TestPlaceOrder_MissingCartIsNoOp(t *testing.T) {
	t.Parallel()

	store := seedStore()
	delete(store.carts, custID)
	coord, _ := newTestCoordinator(store)

	o, err := coord.PlaceOrder(context.Background(), custID, checkoutRequest(
		CreateOrderItem{Product: prodA, Quantity: 1},
	))
	require.NoError(t, err)
	require.Equal(t, "100.00", o.Total)
}

func TestPlaceOrder_ConcurrentNoOversell(t *testing.T) {
	t.Parallel()

	store := seedStore() // product A stock 5
	coord, _ := newTestCoordinator(store)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.PlaceOrder(context.Background(), custID, checkoutRequest(
				CreateOrderItem{Product: prodA, Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, err := range errs {
		if err == nil {
			granted++
			continue
		}
		var stockErr *catalog.InsufficientStockError
		require.True(t, errors.As(err, &stockErr), "unexpected error: %v", err)
	}
	require.Equal(t, 5, granted)
	require.Equal(t, 0, store.products[prodA].Stock)
	require.Len(t, store.orders, 5)
}
