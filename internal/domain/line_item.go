package domain

import "time"

type DurationType string

const (
	DurationHour DurationType = "hour"
	DurationDay  DurationType = "day"
	DurationWeek DurationType = "week"
)

// ProductSnapshot captures the product's identity and price tiers at the
// moment a quotation or rental is created. Later product edits never affect
// an existing booking.
type ProductSnapshot struct {
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	PricePerHour float64 `json:"price_per_hour"`
	PricePerDay  float64 `json:"price_per_day"`
	PricePerWeek float64 `json:"price_per_week"`
}

// LineItem is one rented product configuration inside a quotation, rental or
// invoice. Invariant: LineTotal == UnitBasePrice*Quantity*Duration + AddOnTotal.
type LineItem struct {
	ProductID       int64           `json:"product_id"`
	ProductSnapshot ProductSnapshot `json:"product_snapshot"`
	Quantity        int             `json:"quantity"`
	Duration        int             `json:"duration"`
	DurationType    DurationType    `json:"duration_type"`
	SelectedAddOns  []AddOn         `json:"selected_add_ons"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	UnitBasePrice   float64         `json:"unit_base_price"`
	AddOnTotal      float64         `json:"add_on_total"`
	LineTotal       float64         `json:"line_total"`
}
