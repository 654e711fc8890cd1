package quotation

import (
	"time"

	"flexirent/internal/domain"
)

type ItemRequest struct {
	ProductID      int64     `json:"product_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,gte=1"`
	Duration       int       `json:"duration" binding:"required,gte=1"`
	DurationType   string    `json:"duration_type" binding:"required"`
	SelectedAddOns []string  `json:"selected_add_ons"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
}

type CreateQuotationRequest struct {
	UserID     int64         `json:"user_id" binding:"required"`
	Items      []ItemRequest `json:"items" binding:"required,min=1,dive"`
	ValidUntil *time.Time    `json:"valid_until"`
	Notes      string        `json:"notes"`
}

type UpdateStatusRequest struct {
	Status domain.QuotationStatus `json:"status" binding:"required,oneof=pending accepted rejected expired"`
	Notes  string                 `json:"notes"`
}

type ConvertRequest struct {
	PaymentMode string `json:"payment_mode" binding:"omitempty,oneof=full deposit"`
}

type ListQuery struct {
	Status    string `form:"status"`
	UserID    int64  `form:"user_id"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
