package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingReturned  BookingStatus = "returned"
)

// ProductBooking is the per-product availability record, one per
// (rental, product) pair. It mirrors the rental's lifecycle but is tracked
// separately so availability bookkeeping stays per product.
type ProductBooking struct {
	ID        int64         `json:"id"`
	ProductID int64         `json:"product_id"`
	RentalID  int64         `json:"rental_id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Quantity  int           `json:"quantity"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
