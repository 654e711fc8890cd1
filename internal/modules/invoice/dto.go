package invoice

import "flexirent/internal/domain"

type CustomerOverrides struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

type GenerateRequest struct {
	RentalID int64              `json:"rental_id" binding:"required"`
	Customer *CustomerOverrides `json:"customer_details"`
}

type UpdateStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,oneof=draft sent paid overdue cancelled"`
}

type MarkPaidRequest struct {
	TransactionID string  `json:"transaction_id"`
	PaidAmount    float64 `json:"paid_amount"`
}

type ListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
