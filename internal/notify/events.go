package notify

import "time"

const (
	TopicOrderPlaced        = "order-service.order-placed"
	TopicOrderStatusChanged = "order-service.status-changed"
)

const (
	TypeOrderPlaced  = "order_placed"
	TypeStatusChange = "order_status_changed"
)

// Event is what collaborators receive. Data carries the typed payload below.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	ActorID   string    `json:"actor_id"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderPlacedEvent struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Total      string `json:"total"`
}

type OrderStatusEvent struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}
