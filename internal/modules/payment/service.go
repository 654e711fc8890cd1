package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"flexirent/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	payments PaymentRepository
	rentals  RentalReader
	canceler RentalTransitioner
	users    UserReader
	invoices InvoiceGenerator
	gateway  Gateway
	stripe   StripeClient
	paytm    *PaytmClient
	loggerf  func(format string, args ...interface{})

	frontendURL string
}

func NewService(
	payments PaymentRepository,
	rentals RentalReader,
	canceler RentalTransitioner,
	users UserReader,
	invoices InvoiceGenerator,
	gateway Gateway,
	stripe StripeClient,
	paytm *PaytmClient,
	frontendURL string,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	front := frontendURL
	if front == "" {
		front = "http://localhost:5173"
	}
	return &Service{
		payments:    payments,
		rentals:     rentals,
		canceler:    canceler,
		users:       users,
		invoices:    invoices,
		gateway:     gateway,
		stripe:      stripe,
		paytm:       paytm,
		loggerf:     loggerf,
		frontendURL: front,
	}
}

// ownedRental loads the rental and checks it belongs to the caller.
func (s *Service) ownedRental(ctx context.Context, userID, rentalID int64) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if rental.UserID != userID {
		return nil, ErrForbidden
	}
	return rental, nil
}

func rentalPaymentStatusFor(t domain.PaymentType) domain.RentalPaymentStatus {
	if t == domain.PaymentDeposit {
		return domain.RentalDepositPaid
	}
	return domain.RentalPaid
}

// settle records the payment success on the rental and generates the paid
// invoice. Invoice failures are logged and swallowed: the charge already
// happened and must not be rolled back over paperwork.
func (s *Service) settle(ctx context.Context, rental *domain.Rental, p *domain.Payment) *int64 {
	status := rentalPaymentStatusFor(p.PaymentType)
	if err := s.rentals.UpdatePaymentStatus(ctx, rental.ID, status); err != nil {
		s.loggerf("level=error msg=rental_payment_status_update_failed rental_id=%d err=%v", rental.ID, err)
	}
	rental.PaymentStatus = status

	invoice, err := s.invoices.GenerateForPayment(ctx, rental, p)
	if err != nil {
		s.loggerf("level=error msg=invoice_generation_failed rental_id=%d payment_id=%d err=%v", rental.ID, p.ID, err)
		return nil
	}
	s.loggerf("level=info msg=invoice_generated rental_id=%d invoice_id=%d number=%s", rental.ID, invoice.ID, invoice.InvoiceNumber)
	return &invoice.ID
}

// Process runs a charge through the configured synchronous gateway.
func (s *Service) Process(ctx context.Context, userID int64, req ProcessRequest) (*ProcessResponse, error) {
	rental, err := s.ownedRental(ctx, userID, req.RentalID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		RentalID:    req.RentalID,
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    "USD",
		Method:      req.PaymentMethod,
		PaymentType: domain.PaymentType(req.PaymentType),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway charge: %w", err)
	}

	p := &domain.Payment{
		RentalID:      req.RentalID,
		UserID:        userID,
		Amount:        req.Amount,
		Currency:      "USD",
		PaymentType:   domain.PaymentType(req.PaymentType),
		Method:        req.PaymentMethod,
		Provider:      s.gateway.Name(),
		Status:        result.Status,
		ProviderRef:   result.ProviderRef,
		TransactionID: result.TransactionID,
		ErrorReason:   result.ErrorReason,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	resp := &ProcessResponse{
		Payment: PaymentSummary{
			ID:          p.ID,
			Amount:      p.Amount,
			Status:      p.Status,
			ProviderRef: p.ProviderRef,
			ErrorReason: p.ErrorReason,
		},
		Rental: RentalSummary{ID: rental.ID, PaymentStatus: rental.PaymentStatus},
	}

	if p.Status != domain.PaymentSucceeded {
		s.loggerf("level=warn msg=payment_declined rental_id=%d reason=%s", rental.ID, p.ErrorReason)
		return resp, ErrPaymentFailed
	}

	resp.InvoiceID = s.settle(ctx, rental, p)
	resp.Rental.PaymentStatus = rental.PaymentStatus
	s.loggerf("level=info msg=payment_succeeded rental_id=%d payment_id=%d amount=%.2f", rental.ID, p.ID, p.Amount)
	return resp, nil
}

// StripeCreateIntent sets up the customer and intent on Stripe's side.
func (s *Service) StripeCreateIntent(ctx context.Context, userID int64, req StripeIntentRequest) (*StripeIntentResponse, error) {
	if _, err := s.ownedRental(ctx, userID, req.RentalID); err != nil {
		return nil, err
	}

	customer, err := s.stripe.CreateCustomer(ctx, req.Customer.Email, req.Customer.Name, req.Customer.Phone)
	if err != nil {
		return nil, fmt.Errorf("create stripe customer: %w", err)
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, req.Amount, "inr", map[string]string{
		"rental_id":    fmt.Sprintf("%d", req.RentalID),
		"user_id":      fmt.Sprintf("%d", userID),
		"payment_type": req.PaymentType,
		"customer_id":  customer.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &StripeIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		CustomerID:      customer.ID,
	}, nil
}

// StripeConfirm finalizes the intent and records the payment.
func (s *Service) StripeConfirm(ctx context.Context, userID int64, req StripeConfirmRequest) (*ProcessResponse, error) {
	rental, err := s.ownedRental(ctx, userID, req.RentalID)
	if err != nil {
		return nil, err
	}

	intent, err := s.stripe.ConfirmPaymentIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent: %w", err)
	}

	p := &domain.Payment{
		RentalID:      req.RentalID,
		UserID:        userID,
		Amount:        req.Amount,
		Currency:      "INR",
		PaymentType:   domain.PaymentType(req.PaymentType),
		Method:        "stripe",
		Provider:      domain.ProviderStripe,
		Status:        domain.PaymentSucceeded,
		ProviderRef:   req.PaymentIntentID,
		TransactionID: intent.ID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	invoiceID := s.settle(ctx, rental, p)
	s.loggerf("level=info msg=stripe_payment_confirmed rental_id=%d intent=%s", rental.ID, req.PaymentIntentID)

	return &ProcessResponse{
		Payment:   PaymentSummary{ID: p.ID, Amount: p.Amount, Status: p.Status, ProviderRef: p.ProviderRef},
		Rental:    RentalSummary{ID: rental.ID, PaymentStatus: rental.PaymentStatus},
		InvoiceID: invoiceID,
	}, nil
}

// PaytmInitiate builds the signed order and stores a pending payment keyed by
// the order id, so the callback can find it later.
func (s *Service) PaytmInitiate(ctx context.Context, userID int64, req PaytmInitiateRequest, callbackURL string) (*PaytmInitiateResponse, error) {
	if _, err := s.ownedRental(ctx, userID, req.RentalID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	phone := req.CustomerPhone
	if phone == "" {
		phone = user.Phone
	}

	orderID := s.paytm.GenerateOrderID()
	txn := s.paytm.BuildTransaction(
		orderID,
		fmt.Sprintf("%d", userID),
		fmt.Sprintf("%.2f", req.Amount),
		user.Email,
		phone,
		callbackURL,
	)

	p := &domain.Payment{
		RentalID:    req.RentalID,
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    "INR",
		PaymentType: domain.PaymentType(req.PaymentType),
		Method:      "paytm",
		Provider:    domain.ProviderPaytm,
		Status:      domain.PaymentPending,
		ProviderRef: orderID,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	s.loggerf("level=info msg=paytm_initiated rental_id=%d order_id=%s", req.RentalID, orderID)
	return &PaytmInitiateResponse{
		Payment:     PaymentSummary{ID: p.ID, Amount: p.Amount, Status: p.Status},
		OrderID:     orderID,
		PaytmParams: txn.Params,
		RedirectURL: txn.RedirectURL,
	}, nil
}

// PaytmCallback handles the gateway's browser POST. The checksum is verified
// before anything is looked up; the payment is located only by the posted
// ORDERID. Returns the frontend URL the browser should be redirected to.
func (s *Service) PaytmCallback(ctx context.Context, params map[string]string) (string, error) {
	if !s.paytm.VerifyChecksum(params, params[checksumField]) {
		s.loggerf("level=warn msg=paytm_checksum_mismatch order_id=%s", params["ORDERID"])
		return "", ErrChecksumMismatch
	}

	orderID := params["ORDERID"]
	p, err := s.payments.GetByProviderRef(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	if params["STATUS"] != "TXN_SUCCESS" {
		reason := params["RESPMSG"]
		if err := s.payments.MarkFailed(ctx, p.ID, reason); err != nil {
			return "", err
		}
		s.loggerf("level=warn msg=paytm_payment_failed order_id=%s reason=%s", orderID, reason)
		return fmt.Sprintf("%s/payment-failed?orderId=%s&status=failed&message=%s",
			s.frontendURL, orderID, url.QueryEscape(reason)), nil
	}

	txnID := params["TXNID"]
	if err := s.payments.MarkSucceeded(ctx, p.ID, txnID); err != nil {
		return "", err
	}
	p.Status = domain.PaymentSucceeded
	p.TransactionID = txnID

	rental, err := s.rentals.GetByID(ctx, p.RentalID)
	if err != nil {
		return "", err
	}

	invoiceID := s.settle(ctx, rental, p)
	s.loggerf("level=info msg=paytm_payment_succeeded order_id=%s txn_id=%s", orderID, txnID)

	if invoiceID != nil {
		return fmt.Sprintf("%s/invoice-%d", s.frontendURL, *invoiceID), nil
	}
	return fmt.Sprintf("%s/payment-success?orderId=%s&status=success", s.frontendURL, orderID), nil
}

// PaytmVerify asks the gateway for the transaction status and reconciles the
// stored payment with it.
func (s *Service) PaytmVerify(ctx context.Context, orderID string) (*StatusResult, error) {
	result, err := s.paytm.TransactionStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded() {
		return result, ErrPaymentFailed
	}

	p, err := s.payments.GetByProviderRef(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentSucceeded {
		if err := s.payments.MarkSucceeded(ctx, p.ID, result.TransactionID); err != nil {
			return nil, err
		}
		if err := s.rentals.UpdatePaymentStatus(ctx, p.RentalID, rentalPaymentStatusFor(p.PaymentType)); err != nil {
			s.loggerf("level=error msg=rental_payment_status_update_failed rental_id=%d err=%v", p.RentalID, err)
		}
	}
	return result, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, id int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.UserID != callerID && callerRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return p, nil
}

// Refund flips a successful payment to refunded and cancels the rental when
// its lifecycle still allows it.
func (s *Service) Refund(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status != domain.PaymentSucceeded {
		return nil, ErrNotRefundable
	}

	if err := s.payments.MarkRefunded(ctx, p.ID); err != nil {
		return nil, err
	}
	p.Status = domain.PaymentRefunded

	if _, err := s.canceler.UpdateStatus(ctx, p.RentalID, domain.RentalCancelled); err != nil {
		// Completed rentals stay completed; the refund itself stands.
		s.loggerf("level=warn msg=refund_rental_not_cancelled rental_id=%d err=%v", p.RentalID, err)
	}

	s.loggerf("level=info msg=payment_refunded payment_id=%d rental_id=%d", p.ID, p.RentalID)
	return p, nil
}
