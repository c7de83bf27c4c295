package inventory

import "errors"

var (
	ErrItemNotFound = errors.New("ration item not found")
)
