package invoice

import "errors"

var (
	ErrNotFound       = errors.New("invoice not found")
	ErrRentalNotFound = errors.New("rental not found")
	ErrForbidden      = errors.New("not allowed to access this invoice")
	ErrAlreadyExists  = errors.New("invoice already exists for this rental")
	ErrValidation     = errors.New("invalid invoice data")
)
