package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"flexirent/internal/domain"
	"flexirent/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	defaultNotes   = "Thank you for choosing FlexiRent!"
	defaultTerms   = "Payment is due within 7 days. Cancellation is free up to 24 hours before rental start date."
	paymentDueDays = 7
)

type Service struct {
	invoices InvoiceRepository
	rentals  RentalReader
	loggerf  func(format string, args ...interface{})
}

func NewService(invoices InvoiceRepository, rentals RentalReader, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{invoices: invoices, rentals: rentals, loggerf: loggerf}
}

// isDuplicateErr recognizes a unique-constraint violation from either
// backend: pg error 23505, or sqlite's constraint message.
func isDuplicateErr(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Generate issues a draft invoice for a rental. One invoice per rental: the
// pre-check catches the common case and the unique index on rental_id closes
// the race.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*domain.Invoice, error) {
	rental, err := s.rentals.GetByID(ctx, req.RentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	exists, err := s.invoices.ExistsForRental(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	inv := s.buildInvoice(rental)
	inv.CustomerDetails = mergeCustomer(rental.CustomerSnapshot, req.Customer)
	inv.PaymentDetails = domain.InvoicePaymentDetails{
		PaymentMode:   rental.PaymentMode,
		PaymentStatus: "pending",
	}
	inv.Status = domain.InvoiceDraft

	if err := s.create(ctx, inv); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=invoice_generated invoice_id=%d number=%s rental_id=%d", inv.ID, inv.InvoiceNumber, rental.ID)
	return inv, nil
}

// GenerateForPayment issues a paid invoice right after a successful charge.
func (s *Service) GenerateForPayment(ctx context.Context, rental *domain.Rental, p *domain.Payment) (*domain.Invoice, error) {
	exists, err := s.invoices.ExistsForRental(ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	now := time.Now()
	inv := s.buildInvoice(rental)
	inv.CustomerDetails = rental.CustomerSnapshot
	inv.Status = domain.InvoicePaid
	inv.PaidAt = &now
	inv.PaymentDetails = domain.InvoicePaymentDetails{
		PaymentMode:   rental.PaymentMode,
		PaymentStatus: "paid",
		PaymentMethod: p.Method,
		TransactionID: p.TransactionID,
		PaidAmount:    p.Amount,
		PaidAt:        &now,
	}

	if err := s.create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) buildInvoice(rental *domain.Rental) *domain.Invoice {
	now := time.Now()
	return &domain.Invoice{
		RentalID:   rental.ID,
		CustomerID: rental.UserID,
		Items:      rental.Items,
		Pricing: domain.InvoicePricing{
			Subtotal:   rental.Subtotal,
			ServiceFee: rental.ServiceFee,
			Tax:        rental.Tax,
			Total:      rental.Total,
			Currency:   "INR",
		},
		DueDate:  now.AddDate(0, 0, paymentDueDays),
		Notes:    defaultNotes,
		Terms:    defaultTerms,
		IssuedAt: now,
	}
}

func (s *Service) create(ctx context.Context, inv *domain.Invoice) error {
	number, err := s.invoices.NextInvoiceNumber(ctx)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = number

	if err := s.invoices.Create(ctx, inv); err != nil {
		if isDuplicateErr(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, id int64) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inv.CustomerID != callerID && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return inv, nil
}

// UserInvoices lists a customer's invoices; customers can only see their own.
func (s *Service) UserInvoices(ctx context.Context, callerID int64, callerRole string, userID int64, q ListQuery) ([]domain.Invoice, int64, error) {
	if callerID != userID && callerRole != string(domain.RoleAdmin) {
		return nil, 0, ErrForbidden
	}
	return s.invoices.List(ctx, repository.InvoiceFilter{
		CustomerID: userID,
		Status:     q.Status,
		Page:       q.Page,
		Limit:      q.Limit,
	})
}

func (s *Service) List(ctx context.Context, q ListQuery, customerID int64) ([]domain.Invoice, int64, error) {
	return s.invoices.List(ctx, repository.InvoiceFilter{
		CustomerID: customerID,
		Status:     q.Status,
		Page:       q.Page,
		Limit:      q.Limit,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if _, err := s.invoices.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var paidAt *time.Time
	if status == domain.InvoicePaid {
		now := time.Now()
		paidAt = &now
	}
	if err := s.invoices.UpdateStatus(ctx, id, status, paidAt); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) MarkPaid(ctx context.Context, id int64, req MarkPaidRequest) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	details := inv.PaymentDetails
	details.PaymentStatus = "paid"
	details.TransactionID = req.TransactionID
	details.PaidAmount = req.PaidAmount
	details.PaidAt = &now

	if err := s.invoices.MarkPaid(ctx, id, details, now); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.invoices.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.invoices.Delete(ctx, id)
}
