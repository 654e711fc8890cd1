package quotation

import "errors"

var (
	ErrNotFound            = errors.New("quotation not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrValidation          = errors.New("invalid quotation data")
	ErrInvalidTransition   = errors.New("invalid quotation status transition")
	ErrExpired             = errors.New("quotation has expired")
	ErrNotAccepted         = errors.New("quotation must be accepted before conversion")
	ErrInvalidState        = errors.New("quotation cannot be deleted in its current state")
	ErrInvalidDurationType = errors.New("invalid duration type")
)
