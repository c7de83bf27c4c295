package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("ration item not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrEmptyOrder        = errors.New("no valid items to order")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrAlreadySettled    = errors.New("order already settled")
	ErrBusy              = errors.New("stock is busy, retry")
	ErrTokenExhausted    = errors.New("order token generation failed")
)
