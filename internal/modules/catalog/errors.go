package catalog

import "errors"

var (
	ErrNotFound   = errors.New("product not found")
	ErrValidation = errors.New("invalid product data")
)
