package payment

import "flexirent/internal/domain"

type ProcessRequest struct {
	RentalID      int64   `json:"rental_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentType   string  `json:"payment_type" binding:"required,oneof=full deposit"`
}

type PaymentSummary struct {
	ID          int64                `json:"id"`
	Amount      float64              `json:"amount"`
	Status      domain.PaymentStatus `json:"status"`
	ProviderRef string               `json:"provider_ref,omitempty"`
	ErrorReason string               `json:"error_reason,omitempty"`
}

type RentalSummary struct {
	ID            int64                      `json:"id"`
	PaymentStatus domain.RentalPaymentStatus `json:"payment_status"`
}

type ProcessResponse struct {
	Payment   PaymentSummary `json:"payment"`
	Rental    RentalSummary  `json:"rental"`
	InvoiceID *int64         `json:"invoice_id"`
}

type StripeIntentRequest struct {
	RentalID    int64    `json:"rental_id" binding:"required"`
	Amount      float64  `json:"amount" binding:"required,gt=0"`
	PaymentType string   `json:"payment_type" binding:"required,oneof=full deposit"`
	Customer    Customer `json:"customer_details" binding:"required"`
}

type Customer struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type StripeIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	CustomerID      string `json:"customer_id"`
}

type StripeConfirmRequest struct {
	RentalID        int64   `json:"rental_id" binding:"required"`
	PaymentIntentID string  `json:"payment_intent_id" binding:"required"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PaymentType     string  `json:"payment_type" binding:"required,oneof=full deposit"`
}

type PaytmInitiateRequest struct {
	RentalID      int64   `json:"rental_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentType   string  `json:"payment_type" binding:"required,oneof=full deposit"`
	CustomerPhone string  `json:"customer_phone"`
}

type PaytmInitiateResponse struct {
	Payment     PaymentSummary    `json:"payment"`
	OrderID     string            `json:"order_id"`
	PaytmParams map[string]string `json:"paytm_params"`
	RedirectURL string            `json:"redirect_url"`
}

type PaytmVerifyRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}
