package request

import (
	"github.com/shopspring/decimal"
)

func init() {
	// the remote store keeps price as a JSON number
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
