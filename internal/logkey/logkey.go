// Package logkey holds the slog attribute names shared across the service so
// log lines stay searchable.
package logkey

const (
	OrderID    = "order_id"
	CustomerID = "customer_id"
	ProductID  = "product_id"
	Status     = "status"
	Error      = "error"
	RequestID  = "request_id"
)
