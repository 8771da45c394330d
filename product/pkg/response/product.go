package response

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Products is the result set of one listing, alive only for the request that fetched it.
type Products []Product

func (p Products) TotalQuantity() int {
	total := 0
	for _, product := range p {
		total += product.Quantity
	}
	return total
}

func (p Products) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, product := range p {
		total = total.Add(product.Price)
	}
	return total
}
