package quotation

import (
	"context"
	"errors"
	"time"

	"flexirent/internal/domain"
	"flexirent/internal/modules/pricing"
	"flexirent/internal/repository"

	"gorm.io/gorm"
)

const defaultValidity = 7 * 24 * time.Hour

var quotationTransitions = map[domain.QuotationStatus][]domain.QuotationStatus{
	domain.QuotationPending:  {domain.QuotationAccepted, domain.QuotationRejected, domain.QuotationExpired},
	domain.QuotationAccepted: {domain.QuotationExpired},
	domain.QuotationRejected: {domain.QuotationExpired},
	domain.QuotationExpired:  {},
}

func canTransition(from, to domain.QuotationStatus) bool {
	for _, allowed := range quotationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Service struct {
	quotations QuotationRepository
	products   ProductReader
	users      UserReader
	rentals    RentalCreator
	pricer     *pricing.Engine
	loggerf    func(format string, args ...interface{})
}

func NewService(
	quotations QuotationRepository,
	products ProductReader,
	users UserReader,
	rentals RentalCreator,
	pricer *pricing.Engine,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		quotations: quotations,
		products:   products,
		users:      users,
		rentals:    rentals,
		pricer:     pricer,
		loggerf:    loggerf,
	}
}

// Create prices a quotation for a customer. Unlike rentals the products are
// not booked and need not be available: the quote is provisional.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*domain.Quotation, error) {
	if len(req.Items) == 0 {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, in := range req.Items {
		product, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}

		item, err := s.pricer.BuildLineItem(product, pricing.ItemInput{
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			Duration:       in.Duration,
			DurationType:   domain.DurationType(in.DurationType),
			SelectedAddOns: in.SelectedAddOns,
			StartDate:      in.StartDate,
			EndDate:        in.EndDate,
		})
		if err != nil {
			if errors.Is(err, pricing.ErrInvalidDurationType) {
				return nil, ErrInvalidDurationType
			}
			return nil, err
		}
		items = append(items, item)
	}

	totals := s.pricer.QuotationTotals(items)

	validUntil := time.Now().Add(defaultValidity)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	q := &domain.Quotation{
		UserID:     req.UserID,
		Items:      items,
		Subtotal:   totals.Subtotal,
		ServiceFee: totals.ServiceFee,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Status:     domain.QuotationPending,
		ValidUntil: validUntil,
		Notes:      req.Notes,
	}
	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=quotation_created quotation_id=%d user_id=%d total=%.2f", q.ID, q.UserID, q.Total)
	return q, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Quotation, error) {
	q, err := s.quotations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Quotation, int64, error) {
	return s.quotations.List(ctx, repository.QuotationFilter{
		UserID:    q.UserID,
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, target domain.QuotationStatus, notes string) (*domain.Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(q.Status, target) {
		return nil, ErrInvalidTransition
	}
	if err := s.quotations.UpdateStatus(ctx, id, target, notes); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=quotation_transition quotation_id=%d from=%s to=%s", id, q.Status, target)
	return s.quotations.GetByID(ctx, id)
}

// ConvertToRental turns an accepted, still valid quotation into an upcoming
// rental. The stored snapshots and totals are copied verbatim: the catalog
// may have changed since the quote was issued, and a quote is a price promise.
// No product bookings are created on this path.
func (s *Service) ConvertToRental(ctx context.Context, id int64, req ConvertRequest) (*domain.Rental, *domain.Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if q.Status != domain.QuotationAccepted {
		return nil, nil, ErrNotAccepted
	}
	if time.Now().After(q.ValidUntil) {
		return nil, nil, ErrExpired
	}

	user, err := s.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, nil, err
	}

	mode := domain.PayFull
	if req.PaymentMode != "" {
		mode = domain.PaymentMode(req.PaymentMode)
	}
	deposit, balance := s.pricer.DepositSplit(q.Total, mode)

	rental := &domain.Rental{
		UserID:        q.UserID,
		Items:         q.Items,
		Subtotal:      q.Subtotal,
		ServiceFee:    q.ServiceFee,
		Tax:           q.Tax,
		Total:         q.Total,
		DepositAmount: deposit,
		BalanceDue:    balance,
		PaymentMode:   mode,
		Status:        domain.RentalUpcoming,
		PaymentStatus: domain.RentalUnpaid,
		Delivery:      domain.Delivery{Method: "pickup"},
		CustomerSnapshot: domain.CustomerSnapshot{
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		},
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, nil, err
	}

	if err := s.quotations.MarkConverted(ctx, q.ID, rental.ID); err != nil {
		return nil, nil, err
	}

	s.loggerf("level=info msg=quotation_converted quotation_id=%d rental_id=%d", q.ID, rental.ID)

	converted, err := s.quotations.GetByID(ctx, q.ID)
	if err != nil {
		return nil, nil, err
	}
	return rental, converted, nil
}

// Delete removes a quotation. Accepted and rejected quotes are part of the
// audit trail and stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == domain.QuotationAccepted || q.Status == domain.QuotationRejected {
		return ErrInvalidState
	}
	return s.quotations.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*repository.QuotationStats, error) {
	return s.quotations.Stats(ctx)
}
