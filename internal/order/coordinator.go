// Package order implements the checkout transaction coordinator and the
// fulfillment status state machine on top of the inventory ledger, the cart
// reconciler and the order store.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vanshh13/GreenCart-sub000/internal/catalog"
	"github.com/vanshh13/GreenCart-sub000/internal/customer"
	"github.com/vanshh13/GreenCart-sub000/internal/logkey"
	"github.com/vanshh13/GreenCart-sub000/internal/notify"
)

// Coordinator turns a checkout request into a persisted order. All writes of
// one call happen in a single unit of work: inventory reservation, order +
// detail + items, cart reconciliation. Each call creates a new order, so it is
// not idempotent under client retries; that risk stays with the caller.
type Coordinator struct {
	uow       UnitOfWork
	customers CustomerDirectory
	notifier  notify.Notifier
	timeout   time.Duration
}

func NewCoordinator(uow UnitOfWork, customers CustomerDirectory, notifier notify.Notifier, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Coordinator{uow: uow, customers: customers, notifier: notifier, timeout: timeout}
}

func (c *Coordinator) PlaceOrder(ctx context.Context, customerID string, req CreateOrderRequest) (*Order, error) {
	if err := validateRequest(customerID, req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var placed *Order
	err := c.uow.Run(ctx, func(ops Ops) error {
		ok, err := ops.Addresses().AddressExists(ctx, req.Detail.DeliveryAddress)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", customer.ErrAddressNotFound, req.Detail.DeliveryAddress)
		}

		orderID := uuid.NewString()
		subtotal := decimal.Zero
		items := make([]Item, 0, len(req.OrderItems))
		productIDs := make([]string, 0, len(req.OrderItems))

		for _, line := range req.OrderItems {
			if _, err := ops.Products().GetByID(ctx, line.Product); err != nil {
				return fmt.Errorf("product %s: %w", line.Product, catalog.ErrNotFound)
			}
			res, err := ops.Ledger().Reserve(ctx, line.Product, line.Quantity)
			if err != nil {
				return err
			}
			unit, err := decimal.NewFromString(res.UnitPrice)
			if err != nil {
				return fmt.Errorf("parse price of product %s: %w", line.Product, err)
			}
			subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, Item{
				ID:        uuid.NewString(),
				OrderID:   orderID,
				ProductID: line.Product,
				Quantity:  line.Quantity,
				Price:     unit.StringFixed(2),
			})
			productIDs = append(productIDs, line.Product)
		}

		detail, err := buildDetail(orderID, req.Detail, subtotal)
		if err != nil {
			return err
		}

		paymentStatus := req.PaymentStatus
		if paymentStatus == "" {
			paymentStatus = PaymentStatusUnpaid
		}
		now := time.Now().UTC()
		o := &Order{
			ID:            orderID,
			CustomerID:    customerID,
			Status:        StatusPending,
			Total:         subtotal.StringFixed(2),
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: paymentStatus,
			Timestamps:    map[Status]time.Time{StatusPending: now},
			CreatedAt:     now,
			UpdatedAt:     now,
			Detail:        detail,
			Items:         items,
		}
		if err := ops.Orders().Insert(ctx, o); err != nil {
			return err
		}

		if _, err := ops.Carts().RemovePurchased(ctx, customerID, productIDs); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	c.emitPlaced(ctx, placed)
	return placed, nil
}

func validateRequest(customerID string, req CreateOrderRequest) error {
	switch {
	case customerID == "":
		return fmt.Errorf("%w: customer id is required", ErrValidation)
	case len(req.OrderItems) == 0:
		return fmt.Errorf("%w: order items are required", ErrValidation)
	case req.PaymentMethod == "":
		return fmt.Errorf("%w: payment method is required", ErrValidation)
	case req.Detail.DeliveryAddress == "":
		return fmt.Errorf("%w: delivery address is required", ErrValidation)
	}
	for _, line := range req.OrderItems {
		if line.Product == "" {
			return fmt.Errorf("%w: order item without product", ErrValidation)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1 for product %s", ErrValidation, line.Product)
		}
	}
	return nil
}

func buildDetail(orderID string, in CreateOrderDetail, subtotal decimal.Decimal) (*Detail, error) {
	tax, err := parseAmount(in.Tax, "tax")
	if err != nil {
		return nil, err
	}
	discount, err := parseAmount(in.Discount, "discount")
	if err != nil {
		return nil, err
	}

	final := subtotal.Add(tax).Sub(discount)
	if in.FinalPrice != "" {
		final, err = parseAmount(in.FinalPrice, "final price")
		if err != nil {
			return nil, err
		}
	}

	return &Detail{
		ID:                uuid.NewString(),
		OrderID:           orderID,
		DeliveryAddressID: in.DeliveryAddress,
		Subtotal:          subtotal.StringFixed(2),
		Tax:               tax.StringFixed(2),
		Discount:          discount.StringFixed(2),
		FinalPrice:        final.StringFixed(2),
	}, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed %s %q", ErrValidation, field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
	}
	return d, nil
}

// classify keeps domain errors intact and wraps everything else as an
// infrastructure-level transaction failure.
func classify(err error) error {
	var stock *catalog.InsufficientStockError
	var trans *InvalidTransitionError
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTerminalState),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customer.ErrAddressNotFound),
		errors.As(err, &stock),
		errors.As(err, &trans):
		return err
	}
	return &TransactionError{Err: err}
}

func (c *Coordinator) emitPlaced(ctx context.Context, o *Order) {
	name := o.CustomerID
	if cu, err := c.customers.GetByID(ctx, o.CustomerID); err == nil {
		name = cu.Username
	}
	c.notifier.Emit(ctx, notify.Event{
		Type:    notify.TypeOrderPlaced,
		Message: fmt.Sprintf("New order %s placed by %s, total %s", o.ID, name, o.Total),
		ActorID: o.CustomerID,
		Data:    notify.OrderPlacedEvent{OrderID: o.ID, CustomerID: o.CustomerID, Total: o.Total},
	})
	slog.Info("order placed",
		slog.String(logkey.OrderID, o.ID),
		slog.String(logkey.CustomerID, o.CustomerID),
		slog.String("total", o.Total),
	)
}
