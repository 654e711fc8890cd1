package quotation

import (
	"context"

	"flexirent/internal/domain"
	"flexirent/internal/repository"
)

// QuotationRepository — only the methods the quotation service uses.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	List(ctx context.Context, f repository.QuotationFilter) ([]domain.Quotation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.QuotationStatus, notes string) error
	MarkConverted(ctx context.Context, id, rentalID int64) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repository.QuotationStats, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// RentalCreator persists the rental produced by a conversion. The snapshots
// are carried over verbatim, so this bypasses the pricing path entirely.
type RentalCreator interface {
	Create(ctx context.Context, rental *domain.Rental) error
}
