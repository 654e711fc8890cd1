package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderPaytm  PaymentProvider = "paytm"
	ProviderMock   PaymentProvider = "mock"
)

type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentDeposit PaymentType = "deposit"
)

type Payment struct {
	ID            int64           `json:"id"`
	RentalID      int64           `json:"rental_id"`
	UserID        int64           `json:"user_id"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentType   PaymentType     `json:"payment_type"`
	Method        string          `json:"method"`
	Provider      PaymentProvider `json:"provider"`
	Status        PaymentStatus   `json:"status"`
	ProviderRef   string          `json:"provider_ref,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ErrorReason   string          `json:"error_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
