package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyProductID  = errors.New("product id is required")
)
