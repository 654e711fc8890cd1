package rental

import (
	"context"
	"errors"
	"time"

	"flexirent/internal/domain"
	"flexirent/internal/modules/pricing"
	"flexirent/internal/repository"

	"gorm.io/gorm"
)

// rentalTransitions is the single source of truth for lifecycle changes.
// Both the customer cancel path and the admin path consult it.
var rentalTransitions = map[domain.RentalStatus][]domain.RentalStatus{
	domain.RentalUpcoming:  {domain.RentalActive, domain.RentalCancelled},
	domain.RentalActive:    {domain.RentalCompleted, domain.RentalCancelled},
	domain.RentalCompleted: {},
	domain.RentalCancelled: {},
}

func canTransition(from, to domain.RentalStatus) bool {
	for _, allowed := range rentalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Service struct {
	rentals  RentalRepository
	products ProductReader
	bookings BookingRepository
	users    UserReader
	pricer   *pricing.Engine
	loggerf  func(format string, args ...interface{})
}

func NewService(
	rentals RentalRepository,
	products ProductReader,
	bookings BookingRepository,
	users UserReader,
	pricer *pricing.Engine,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		rentals:  rentals,
		products: products,
		bookings: bookings,
		users:    users,
		pricer:   pricer,
		loggerf:  loggerf,
	}
}

// Create prices the cart against the live catalog, persists the rental with
// immutable snapshots and books every product out of the pool.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRentalRequest) (*domain.Rental, error) {
	if len(req.Items) == 0 {
		return nil, ErrValidation
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
		if !product.IsActive || product.Availability != domain.Available {
			return nil, ErrProductUnavailable
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

	totals := s.pricer.RentalTotals(items)
	mode := domain.PaymentMode(req.PaymentMode)
	deposit, balance := s.pricer.DepositSplit(totals.Total, mode)

	snapshot, err := s.customerSnapshot(ctx, userID, req.Customer)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		UserID:           userID,
		Items:            items,
		Subtotal:         totals.Subtotal,
		ServiceFee:       totals.ServiceFee,
		Tax:              totals.Tax,
		Total:            totals.Total,
		DepositAmount:    deposit,
		BalanceDue:       balance,
		PaymentMode:      mode,
		Status:           domain.RentalUpcoming,
		PaymentStatus:    domain.RentalUnpaid,
		Delivery:         buildDelivery(req.Delivery),
		CustomerSnapshot: snapshot,
	}

	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	for _, item := range items {
		booking := &domain.ProductBooking{
			ProductID: item.ProductID,
			RentalID:  rental.ID,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
			Quantity:  item.Quantity,
			Status:    domain.BookingConfirmed,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, err
		}
		if err := s.products.UpdateAvailability(ctx, item.ProductID, domain.Booked); err != nil {
			return nil, err
		}
	}

	s.loggerf("level=info msg=rental_created rental_id=%d user_id=%d total=%.2f mode=%s",
		rental.ID, userID, rental.Total, mode)
	return rental, nil
}

// Get returns the rental when the caller owns it or is an admin.
func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, id int64) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rental.UserID != callerID && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return rental, nil
}

func (s *Service) MyRentals(ctx context.Context, userID int64, q ListQuery) ([]domain.Rental, int64, error) {
	return s.rentals.List(ctx, repository.RentalFilter{
		UserID:    userID,
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
}

func (s *Service) AdminList(ctx context.Context, q ListQuery) ([]domain.Rental, int64, error) {
	return s.rentals.List(ctx, repository.RentalFilter{
		UserID:    q.UserID,
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
}

// Cancel is the customer-facing path: owner only, and only while the rental
// has not started.
func (s *Service) Cancel(ctx context.Context, userID, id int64) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rental.UserID != userID {
		return nil, ErrForbidden
	}
	if rental.Status != domain.RentalUpcoming {
		return nil, ErrInvalidTransition
	}
	return s.transition(ctx, rental, domain.RentalCancelled)
}

// UpdateStatus is the admin path; it uses the same transition table.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target domain.RentalStatus) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.transition(ctx, rental, target)
}

func (s *Service) transition(ctx context.Context, rental *domain.Rental, target domain.RentalStatus) (*domain.Rental, error) {
	if !canTransition(rental.Status, target) {
		return nil, ErrInvalidTransition
	}

	var cancelledAt *time.Time
	if target == domain.RentalCancelled {
		now := time.Now()
		cancelledAt = &now
	}
	if err := s.rentals.UpdateStatus(ctx, rental.ID, target, cancelledAt); err != nil {
		return nil, err
	}

	switch target {
	case domain.RentalCancelled:
		if err := s.releaseProducts(ctx, rental, domain.BookingCancelled); err != nil {
			return nil, err
		}
	case domain.RentalCompleted:
		if err := s.releaseProducts(ctx, rental, domain.BookingReturned); err != nil {
			return nil, err
		}
	}

	s.loggerf("level=info msg=rental_transition rental_id=%d from=%s to=%s", rental.ID, rental.Status, target)
	return s.rentals.GetByID(ctx, rental.ID)
}

// releaseProducts closes out the bookings and puts the products back in the
// available pool.
func (s *Service) releaseProducts(ctx context.Context, rental *domain.Rental, bookingStatus domain.BookingStatus) error {
	if err := s.bookings.UpdateStatusByRental(ctx, rental.ID, bookingStatus); err != nil {
		return err
	}
	for _, item := range rental.Items {
		if err := s.products.UpdateAvailability(ctx, item.ProductID, domain.Available); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*repository.RentalStats, error) {
	return s.rentals.Stats(ctx)
}

func (s *Service) customerSnapshot(ctx context.Context, userID int64, req *CustomerRequest) (domain.CustomerSnapshot, error) {
	if req != nil && req.Name != "" {
		return domain.CustomerSnapshot{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			ZipCode: req.ZipCode,
		}, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.CustomerSnapshot{}, err
	}
	return domain.CustomerSnapshot{Name: user.Name, Email: user.Email, Phone: user.Phone}, nil
}

func buildDelivery(req *DeliveryRequest) domain.Delivery {
	if req == nil || req.Method == "" {
		return domain.Delivery{Method: "pickup"}
	}
	return domain.Delivery{
		Method:  req.Method,
		Address: req.Address,
		City:    req.City,
		ZipCode: req.ZipCode,
	}
}
