package payment

import "errors"

var (
	ErrNotFound         = errors.New("payment not found")
	ErrRentalNotFound   = errors.New("rental not found")
	ErrForbidden        = errors.New("not allowed to access this payment")
	ErrValidation       = errors.New("invalid payment data")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrGateway          = errors.New("payment gateway error")
	ErrChecksumMismatch = errors.New("invalid checksum")
	ErrNotRefundable    = errors.New("only successful payments can be refunded")
)
