package order

// CreateOrderItem payload of one checkout line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	Product  string `json:"product"  example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity int    `json:"quantity" example:"2"`
}

// CreateOrderDetail carries the pricing breakdown supplied by the client.
// Tax and discount default to zero; the final price defaults to
// subtotal + tax - discount when omitted.
// swagger:model CreateOrderDetail
type CreateOrderDetail struct {
	DeliveryAddress string `json:"deliveryAddress" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Tax             string `json:"tax,omitempty"      example:"1.50"`
	Discount        string `json:"discount,omitempty" example:"0.00"`
	FinalPrice      string `json:"finalPrice,omitempty"`
}

// CreateOrderRequest payload of checkout. TotalPrice is the client's declared
// total; the recorded total is always recomputed from live price snapshots.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	OrderItems    []CreateOrderItem `json:"orderItems"`
	TotalPrice    string            `json:"totalPrice"`
	PaymentMethod string            `json:"paymentMethod" example:"card"`
	PaymentStatus string            `json:"paymentStatus,omitempty"`
	Detail        CreateOrderDetail `json:"OrderDetail"`
}

// UpdateStatusRequest payload of a status transition.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"processing"`
	Actor  string `json:"actor,omitempty"`
}
