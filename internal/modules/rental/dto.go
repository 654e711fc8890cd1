package rental

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

type DeliveryRequest struct {
	Method  string `json:"method" binding:"omitempty,oneof=pickup delivery"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

type CreateRentalRequest struct {
	Items       []ItemRequest    `json:"items" binding:"required,min=1,dive"`
	PaymentMode string           `json:"payment_mode" binding:"required,oneof=full deposit"`
	Delivery    *DeliveryRequest `json:"delivery"`
	Customer    *CustomerRequest `json:"customer"`
}

type UpdateStatusRequest struct {
	Status domain.RentalStatus `json:"status" binding:"required,oneof=upcoming active completed cancelled"`
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
