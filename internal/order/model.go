package order

import "time"

type Order struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	Status        Status `json:"status"`
	Total         string `json:"total"` // NUMERIC -> string
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	// Timestamps records when each status was entered; keys are only ever
	// added, never overwritten or removed.
	Timestamps map[Status]time.Time `json:"timestamps"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`

	Detail *Detail `json:"order_detail,omitempty"`
	Items  []Item  `json:"items,omitempty"`
}

// Detail is the pricing breakdown persisted 1:1 with its order and deleted
// with it.
type Detail struct {
	ID                string `json:"id"`
	OrderID           string `json:"order_id"`
	DeliveryAddressID string `json:"delivery_address"`
	Subtotal          string `json:"subtotal"`
	Tax               string `json:"tax"`
	Discount          string `json:"discount"`
	FinalPrice        string `json:"final_price"`
}

// Item is one product/quantity/unit-price tuple. Price is snapshotted at
// order creation and never re-read from the live product.
type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)
