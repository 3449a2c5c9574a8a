package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Total      string    `json:"total"` // NUMERIC -> string
	Items      []Item    `json:"items"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Item struct {
	ID        string `json:"id"`
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// RecomputeTotal sums the cached line totals of the given items.
func RecomputeTotal(items []Item) (string, error) {
	total := decimal.Zero
	for _, it := range items {
		lt, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return "", err
		}
		total = total.Add(lt)
	}
	return total.StringFixed(2), nil
}
