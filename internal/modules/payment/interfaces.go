package payment

import (
	"context"

	"flexirent/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	MarkSucceeded(ctx context.Context, id int64, transactionID string) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	MarkRefunded(ctx context.Context, id int64) error
}

type RentalReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.RentalPaymentStatus) error
}

// RentalTransitioner cancels a rental through the regular lifecycle path so
// bookings are released. Implemented by the rental service.
type RentalTransitioner interface {
	UpdateStatus(ctx context.Context, id int64, target domain.RentalStatus) (*domain.Rental, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// InvoiceGenerator produces the paid invoice after a successful charge.
// Implemented by the invoice service.
type InvoiceGenerator interface {
	GenerateForPayment(ctx context.Context, rental *domain.Rental, p *domain.Payment) (*domain.Invoice, error)
}
