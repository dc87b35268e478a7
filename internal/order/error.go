package order

import "errors"

var (
	ErrEmptyCart      = errors.New("cannot place an order with an empty cart")
	ErrMissingAddress = errors.New("shipping address is required")
)
