package catalog

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reservation is the result of an atomic conditional stock decrement. UnitPrice
// is the product price read in the same statement, so it is the snapshot the
// order records.
type Reservation struct {
	ProductID string
	Quantity  int
	Remaining int
	UnitPrice string
}
