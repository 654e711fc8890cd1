package payment

import (
	"context"

	"flexirent/internal/domain"
)

// ChargeRequest is what a gateway needs to attempt a charge.
type ChargeRequest struct {
	RentalID    int64
	UserID      int64
	Amount      float64
	Currency    string
	Method      string
	PaymentType domain.PaymentType
}

// ChargeResult is the gateway's verdict. A declined charge comes back as
// Status failed with ErrorReason set, not as a Go error: errors are reserved
// for transport problems.
type ChargeResult struct {
	Status        domain.PaymentStatus
	ProviderRef   string
	TransactionID string
	ErrorReason   string
}

// Gateway is the synchronous charge interface used by the /process flow.
// Stripe and Paytm have their own multi-step flows and do not go through it.
type Gateway interface {
	Name() domain.PaymentProvider
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
