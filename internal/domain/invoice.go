package domain

import "time"

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type InvoicePricing struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"service_fee"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

type InvoicePaymentDetails struct {
	PaymentMode   PaymentMode `json:"payment_mode"`
	PaymentStatus string      `json:"payment_status"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
	PaidAmount    float64     `json:"paid_amount,omitempty"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}

// Invoice is an immutable snapshot of a rental's billing state. It owns
// frozen copies of the line items, pricing and customer details so the bill
// can be reproduced regardless of later rental mutations.
type Invoice struct {
	ID              int64                 `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	RentalID        int64                 `json:"rental_id"`
	CustomerID      int64                 `json:"customer_id"`
	CustomerDetails CustomerSnapshot      `json:"customer_details"`
	Items           []LineItem            `json:"items"`
	Pricing         InvoicePricing        `json:"pricing"`
	PaymentDetails  InvoicePaymentDetails `json:"payment_details"`
	Status          InvoiceStatus         `json:"status"`
	DueDate         time.Time             `json:"due_date"`
	Notes           string                `json:"notes,omitempty"`
	Terms           string                `json:"terms,omitempty"`
	IssuedAt        time.Time             `json:"issued_at"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
