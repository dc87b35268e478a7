package order

import "storefront/internal/cart"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

type Order struct {
	ID              string      `json:"_id"`
	Items           []cart.Item `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	Total           float64     `json:"total"`
	Status          Status      `json:"status"`
	CreatedAt       string      `json:"createdAt"`
}

// CreateInput is the checkout payload: a snapshot of the cart at the moment
// the order is placed.
type CreateInput struct {
	Items           []cart.Item `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
}
