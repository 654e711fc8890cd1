package invoice

import (
	"context"
	"time"

	"flexirent/internal/domain"
	"flexirent/internal/repository"
)

// InvoiceRepository — only the methods the invoice service uses.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByRentalID(ctx context.Context, rentalID int64) (*domain.Invoice, error)
	ExistsForRental(ctx context.Context, rentalID int64) (bool, error)
	List(ctx context.Context, f repository.InvoiceFilter) ([]domain.Invoice, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus, paidAt *time.Time) error
	MarkPaid(ctx context.Context, id int64, details domain.InvoicePaymentDetails, paidAt time.Time) error
	Delete(ctx context.Context, id int64) error
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type RentalReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
}
