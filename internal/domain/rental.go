package domain

import "time"

// RentalStatus is the lifecycle state. Payment progress is tracked separately
// in RentalPaymentStatus so a paid deposit never clobbers the lifecycle.
type RentalStatus string

const (
	RentalUpcoming  RentalStatus = "upcoming"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

type RentalPaymentStatus string

const (
	RentalUnpaid      RentalPaymentStatus = "unpaid"
	RentalDepositPaid RentalPaymentStatus = "deposit_paid"
	RentalPaid        RentalPaymentStatus = "paid"
)

type PaymentMode string

const (
	PayFull    PaymentMode = "full"
	PayDeposit PaymentMode = "deposit"
)

type Delivery struct {
	Method  string `json:"method"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

type CustomerSnapshot struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
}

type Rental struct {
	ID               int64               `json:"id"`
	UserID           int64               `json:"user_id"`
	Items            []LineItem          `json:"items"`
	Subtotal         float64             `json:"subtotal"`
	ServiceFee       float64             `json:"service_fee"`
	Tax              float64             `json:"tax"`
	Total            float64             `json:"total"`
	DepositAmount    float64             `json:"deposit_amount"`
	BalanceDue       float64             `json:"balance_due"`
	PaymentMode      PaymentMode         `json:"payment_mode"`
	Status           RentalStatus        `json:"status"`
	PaymentStatus    RentalPaymentStatus `json:"payment_status"`
	Delivery         Delivery            `json:"delivery"`
	CustomerSnapshot CustomerSnapshot    `json:"customer_snapshot"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
}
