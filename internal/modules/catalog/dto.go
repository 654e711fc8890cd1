package catalog

import "flexirent/internal/domain"

type AddOnInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

type CreateProductRequest struct {
	Name         string       `json:"name" binding:"required,min=2"`
	Category     string       `json:"category" binding:"required"`
	Description  string       `json:"description"`
	Image        string       `json:"image"`
	PricePerHour float64      `json:"price_per_hour" binding:"gte=0"`
	PricePerDay  float64      `json:"price_per_day" binding:"gte=0"`
	PricePerWeek float64      `json:"price_per_week" binding:"gte=0"`
	Features     []string     `json:"features"`
	AddOns       []AddOnInput `json:"add_ons"`
}

type UpdateProductRequest struct {
	Name         *string       `json:"name,omitempty"`
	Category     *string       `json:"category,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Image        *string       `json:"image,omitempty"`
	PricePerHour *float64      `json:"price_per_hour,omitempty"`
	PricePerDay  *float64      `json:"price_per_day,omitempty"`
	PricePerWeek *float64      `json:"price_per_week,omitempty"`
	Features     *[]string     `json:"features,omitempty"`
	AddOns       *[]AddOnInput `json:"add_ons,omitempty"`
	Availability *string       `json:"availability,omitempty"`
	IsActive     *bool         `json:"is_active,omitempty"`
}

type UpdateAvailabilityRequest struct {
	Availability domain.Availability `json:"availability" binding:"required,oneof=available booked"`
}

type ListQuery struct {
	Category     string `form:"category"`
	Availability string `form:"availability"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
