package rental

import "errors"

var (
	ErrNotFound            = errors.New("rental not found")
	ErrForbidden           = errors.New("not allowed to access this rental")
	ErrValidation          = errors.New("invalid rental data")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductUnavailable  = errors.New("product is not available for booking")
	ErrInvalidTransition   = errors.New("invalid rental status transition")
	ErrInvalidDurationType = errors.New("invalid duration type")
)
