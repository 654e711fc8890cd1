package rental

import (
	"context"
	"time"

	"flexirent/internal/domain"
	"flexirent/internal/repository"
)

// RentalRepository — only the methods the rental service uses.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RentalStatus, cancelledAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.RentalPaymentStatus) error
	Stats(ctx context.Context) (*repository.RentalStats, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateAvailability(ctx context.Context, id int64, availability domain.Availability) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.ProductBooking) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.ProductBooking, error)
	UpdateStatusByRental(ctx context.Context, rentalID int64, status domain.BookingStatus) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
