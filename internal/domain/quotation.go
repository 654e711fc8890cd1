package domain

import "time"

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

type Quotation struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"user_id"`
	Items             []LineItem      `json:"items"`
	Subtotal          float64         `json:"subtotal"`
	ServiceFee        float64         `json:"service_fee"`
	Tax               float64         `json:"tax"`
	Total             float64         `json:"total"`
	Status            QuotationStatus `json:"status"`
	ValidUntil        time.Time       `json:"valid_until"`
	Notes             string          `json:"notes,omitempty"`
	ConvertedRentalID *int64          `json:"converted_rental_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
