package domain

import "time"

type Availability string

const (
	Available Availability = "available"
	Booked    Availability = "booked"
)

// AddOn is an optional extra attached to a product. Once copied into a line
// item snapshot it is never re-read from the live product.
type AddOn struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Product struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	Image        string       `json:"image,omitempty"`
	PricePerHour float64      `json:"price_per_hour"`
	PricePerDay  float64      `json:"price_per_day"`
	PricePerWeek float64      `json:"price_per_week"`
	Features     []string     `json:"features"`
	AddOns       []AddOn      `json:"add_ons"`
	Availability Availability `json:"availability"`
	IsActive     bool         `json:"is_active"`
	CreatedBy    int64        `json:"created_by,omitempty"`
	UpdatedBy    int64        `json:"updated_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
