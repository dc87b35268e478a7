package cart

import (
	"math"

	"storefront/internal/product"
)

// Item is one cart line: a product snapshot plus a positive quantity. A cart
// holds at most one Item per product id.
type Item struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// TaxRate is the fixed rate applied on the subtotal.
const TaxRate = 0.16

// Totals are pure functions of the item collection, recomputed on every read
// and never stored.
type Totals struct {
	ItemCount int
	Subtotal  float64
	Tax       float64
	Total     float64
}

func ComputeTotals(items []Item) Totals {
	var t Totals
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.Subtotal += it.Product.Price * float64(it.Quantity)
	}
	t.Subtotal = round2(t.Subtotal)
	t.Tax = round2(t.Subtotal * TaxRate)
	t.Total = round2(t.Subtotal + t.Tax)
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
