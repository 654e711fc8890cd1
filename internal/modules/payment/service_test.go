package payment

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"flexirent/internal/database"
	"flexirent/internal/domain"
	"flexirent/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInvoices stands in for the invoice service.
type fakeInvoices struct {
	nextID int64
	err    error
	calls  int
}

func (f *fakeInvoices) GenerateForPayment(_ context.Context, _ *domain.Rental, _ *domain.Payment) (*domain.Invoice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &domain.Invoice{ID: f.nextID, InvoiceNumber: fmt.Sprintf("INV-%06d", f.nextID)}, nil
}

// fakeCanceler records cancel attempts.
type fakeCanceler struct {
	cancelled []int64
	err       error
}

func (f *fakeCanceler) UpdateStatus(_ context.Context, id int64, _ domain.RentalStatus) (*domain.Rental, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cancelled = append(f.cancelled, id)
	return &domain.Rental{ID: id, Status: domain.RentalCancelled}, nil
}

type paymentEnv struct {
	svc      *Service
	payments *repository.PaymentRepository
	rentals  *repository.RentalRepository
	users    *repository.UserRepository
	mock     *MockGateway
	invoices *fakeInvoices
	canceler *fakeCanceler
	paytm    *PaytmClient
}

func setupEnv(t *testing.T) *paymentEnv {
	t.Helper()
	t.Setenv("PAYTM_MERCHANT_ID", "TESTMID")
	t.Setenv("PAYTM_MERCHANT_KEY", "test-merchant-key")

	dsn := fmt.Sprintf("file:payment_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	payments := repository.NewPaymentRepository(db)
	rentals := repository.NewRentalRepository(db)
	users := repository.NewUserRepository(db)

	mock := NewMockGateway()
	invoices := &fakeInvoices{}
	canceler := &fakeCanceler{}
	paytm := NewPaytmClient()

	svc := NewService(payments, rentals, canceler, users, invoices, mock, nil, paytm, "http://localhost:5173", nil)
	return &paymentEnv{
		svc: svc, payments: payments, rentals: rentals, users: users,
		mock: mock, invoices: invoices, canceler: canceler, paytm: paytm,
	}
}

func (e *paymentEnv) seedUser(t *testing.T) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Jamie Client", Email: "jamie@example.com", Phone: "555-0101", Role: domain.RoleClient}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *paymentEnv) seedRental(t *testing.T, userID int64) *domain.Rental {
	t.Helper()
	r := &domain.Rental{
		UserID:        userID,
		Items:         []domain.LineItem{{ProductID: 1, Quantity: 1, Duration: 2, DurationType: domain.DurationDay, LineTotal: 320}},
		Subtotal:      320,
		ServiceFee:    16,
		Tax:           26,
		Total:         362,
		BalanceDue:    362,
		PaymentMode:   domain.PayFull,
		Status:        domain.RentalUpcoming,
		PaymentStatus: domain.RentalUnpaid,
	}
	require.NoError(t, e.rentals.Create(context.Background(), r))
	return r
}

func TestProcessFullPayment(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID:      rental.ID,
		PaymentMethod: "card",
		Amount:        362,
		PaymentType:   "full",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentSucceeded, resp.Payment.Status)
	assert.Equal(t, domain.RentalPaid, resp.Rental.PaymentStatus)
	require.NotNil(t, resp.InvoiceID)
	assert.Equal(t, 1, env.invoices.calls)

	reloaded, err := env.rentals.GetByID(context.Background(), rental.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalPaid, reloaded.PaymentStatus)
	// Lifecycle status is untouched by payment.
	assert.Equal(t, domain.RentalUpcoming, reloaded.Status)
}

func TestProcessDepositPayment(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID:      rental.ID,
		PaymentMethod: "card",
		Amount:        109,
		PaymentType:   "deposit",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalDepositPaid, resp.Rental.PaymentStatus)
}

func TestProcessDeclined(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	env.mock.FailureHook = func(ChargeRequest) string { return "Payment declined by bank" }

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID:      rental.ID,
		PaymentMethod: "card",
		Amount:        362,
		PaymentType:   "full",
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, resp)
	assert.Equal(t, domain.PaymentFailed, resp.Payment.Status)
	assert.Equal(t, "Payment declined by bank", resp.Payment.ErrorReason)
	assert.Equal(t, 0, env.invoices.calls)

	// The decline is still recorded.
	reloaded, err := env.rentals.GetByID(context.Background(), rental.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalUnpaid, reloaded.PaymentStatus)
}

func TestProcessOwnershipAndExistence(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	_, err := env.svc.Process(context.Background(), user.ID+1, ProcessRequest{
		RentalID: rental.ID, PaymentMethod: "card", Amount: 362, PaymentType: "full",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID: 4242, PaymentMethod: "card", Amount: 362, PaymentType: "full",
	})
	assert.ErrorIs(t, err, ErrRentalNotFound)
}

func TestInvoiceFailureIsSwallowed(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	env.invoices.err = fmt.Errorf("invoice storage down")

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID: rental.ID, PaymentMethod: "card", Amount: 362, PaymentType: "full",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.InvoiceID)
	assert.Equal(t, domain.RentalPaid, resp.Rental.PaymentStatus)
}

func TestPaytmInitiateCreatesPendingPayment(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	resp, err := env.svc.PaytmInitiate(context.Background(), user.ID, PaytmInitiateRequest{
		RentalID: rental.ID, Amount: 362, PaymentType: "full",
	}, "http://localhost:8080/api/payments/paytm/callback")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPending, resp.Payment.Status)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, resp.OrderID, resp.PaytmParams["ORDER_ID"])
	assert.NotEmpty(t, resp.PaytmParams[checksumField])

	stored, err := env.payments.GetByProviderRef(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
}

func paytmCallbackParams(env *paymentEnv, orderID, status string) map[string]string {
	params := map[string]string{
		"ORDERID":   orderID,
		"TXNID":     "TXN_12345",
		"TXNAMOUNT": "362.00",
		"STATUS":    status,
		"RESPCODE":  "01",
		"RESPMSG":   "Txn Success",
	}
	if status != "TXN_SUCCESS" {
		params["RESPMSG"] = "Insufficient funds"
	}
	params[checksumField] = env.paytm.GenerateChecksum(params)
	return params
}

func TestPaytmCallbackSuccess(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	initResp, err := env.svc.PaytmInitiate(context.Background(), user.ID, PaytmInitiateRequest{
		RentalID: rental.ID, Amount: 362, PaymentType: "full",
	}, "http://localhost:8080/api/payments/paytm/callback")
	require.NoError(t, err)

	redirect, err := env.svc.PaytmCallback(context.Background(), paytmCallbackParams(env, initResp.OrderID, "TXN_SUCCESS"))
	require.NoError(t, err)
	// browser lands on the injected frontend base URL
	assert.True(t, strings.HasPrefix(redirect, "http://localhost:5173/invoice-"), redirect)

	stored, err := env.payments.GetByProviderRef(context.Background(), initResp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, stored.Status)
	assert.Equal(t, "TXN_12345", stored.TransactionID)

	reloaded, err := env.rentals.GetByID(context.Background(), rental.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalPaid, reloaded.PaymentStatus)
}

func TestPaytmCallbackRejectsBadChecksumBeforeLookup(t *testing.T) {
	env := setupEnv(t)

	// No payment exists at all: a bad signature must fail on the signature,
	// never reach the lookup.
	params := map[string]string{
		"ORDERID":     "ORDER_UNKNOWN",
		"STATUS":      "TXN_SUCCESS",
		checksumField: "FORGED",
	}
	_, err := env.svc.PaytmCallback(context.Background(), params)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestPaytmCallbackFailureMarksPayment(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	initResp, err := env.svc.PaytmInitiate(context.Background(), user.ID, PaytmInitiateRequest{
		RentalID: rental.ID, Amount: 362, PaymentType: "full",
	}, "http://localhost:8080/api/payments/paytm/callback")
	require.NoError(t, err)

	redirect, err := env.svc.PaytmCallback(context.Background(), paytmCallbackParams(env, initResp.OrderID, "TXN_FAILURE"))
	require.NoError(t, err)
	assert.Contains(t, redirect, "/payment-failed")

	stored, err := env.payments.GetByProviderRef(context.Background(), initResp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, stored.Status)
	assert.Equal(t, "Insufficient funds", stored.ErrorReason)
	assert.Equal(t, 0, env.invoices.calls)
}

func TestGetEnforcesAccess(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID: rental.ID, PaymentMethod: "card", Amount: 362, PaymentType: "full",
	})
	require.NoError(t, err)

	_, err = env.svc.Get(context.Background(), user.ID+1, "client", resp.Payment.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.svc.Get(context.Background(), user.ID+1, "admin", resp.Payment.ID)
	assert.NoError(t, err)
}

func TestRefund(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	resp, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
		RentalID: rental.ID, PaymentMethod: "card", Amount: 362, PaymentType: "full",
	})
	require.NoError(t, err)

	refunded, err := env.svc.Refund(context.Background(), resp.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, refunded.Status)
	assert.Equal(t, []int64{rental.ID}, env.canceler.cancelled)

	// A refunded payment cannot be refunded again.
	_, err = env.svc.Refund(context.Background(), resp.Payment.ID)
	assert.ErrorIs(t, err, ErrNotRefundable)
}

func TestHistoryNewestFirst(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	rental := env.seedRental(t, user.ID)

	for i := 0; i < 2; i++ {
		_, err := env.svc.Process(context.Background(), user.ID, ProcessRequest{
			RentalID: rental.ID, PaymentMethod: "card", Amount: 100, PaymentType: "deposit",
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	history, err := env.svc.History(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, !history[0].CreatedAt.Before(history[1].CreatedAt))
}
