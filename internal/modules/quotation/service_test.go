package quotation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"flexirent/internal/config"
	"flexirent/internal/database"
	"flexirent/internal/domain"
	"flexirent/internal/modules/pricing"
	"flexirent/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc      *Service
	products *repository.ProductRepository
	rentals  *repository.RentalRepository
	users    *repository.UserRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:quotation_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	products := repository.NewProductRepository(db)
	users := repository.NewUserRepository(db)
	rentals := repository.NewRentalRepository(db)
	quotations := repository.NewQuotationRepository(db)

	svc := NewService(quotations, products, users, rentals,
		pricing.NewEngine(config.DefaultPricing()), nil)
	return &testEnv{svc: svc, products: products, rentals: rentals, users: users}
}

func (e *testEnv) seedUser(t *testing.T) *domain.User {
	t.Helper()
	u := &domain.User{Name: "Jamie Client", Email: "jamie@example.com", Phone: "555-0101", Role: domain.RoleClient}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedProduct(t *testing.T, availability domain.Availability) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:         "DSLR Camera",
		Category:     "cameras",
		PricePerHour: 25,
		PricePerDay:  150,
		PricePerWeek: 800,
		Features:     []string{},
		AddOns:       []domain.AddOn{{ID: "addon_1", Name: "Tripod", Price: 20}},
		Availability: availability,
		IsActive:     true,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func quoteRequestFor(userID int64, p *domain.Product) CreateQuotationRequest {
	start := time.Now().Add(24 * time.Hour)
	return CreateQuotationRequest{
		UserID: userID,
		Items: []ItemRequest{{
			ProductID:      p.ID,
			Quantity:       1,
			Duration:       2,
			DurationType:   "day",
			SelectedAddOns: []string{"addon_1"},
			StartDate:      start,
			EndDate:        start.Add(48 * time.Hour),
		}},
	}
}

func TestCreateQuotationUsesGSTRate(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)

	// 150*1*2 + 20 = 320; fee 16; 18% GST = 58.
	assert.Equal(t, 320.0, q.Subtotal)
	assert.Equal(t, 16.0, q.ServiceFee)
	assert.Equal(t, 58.0, q.Tax)
	assert.Equal(t, 394.0, q.Total)
	assert.Equal(t, domain.QuotationPending, q.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), q.ValidUntil, time.Minute)
}

func TestCreateQuotationAllowsBookedProducts(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Booked)

	_, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	assert.NoError(t, err)
}

func TestCreateQuotationUnknownUser(t *testing.T) {
	env := setupEnv(t)
	product := env.seedProduct(t, domain.Available)

	_, err := env.svc.Create(context.Background(), quoteRequestFor(777, product))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStatusTransitions(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)

	accepted, err := env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationAccepted, "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationAccepted, accepted.Status)
	assert.Equal(t, "looks good", accepted.Notes)

	// accepted can only expire.
	_, err = env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationRejected, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	expired, err := env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationExpired, "")
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationExpired, expired.Status)

	// expired is terminal.
	_, err = env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationPending, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConvertCopiesSnapshotsVerbatim(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationAccepted, "")
	require.NoError(t, err)

	// Catalog changes after acceptance must not affect the conversion.
	product.PricePerDay = 999
	require.NoError(t, env.products.Update(context.Background(), product))

	rental, converted, err := env.svc.ConvertToRental(context.Background(), q.ID, ConvertRequest{})
	require.NoError(t, err)

	assert.Equal(t, q.Subtotal, rental.Subtotal)
	assert.Equal(t, q.Tax, rental.Tax) // quotation GST carried over, not re-priced
	assert.Equal(t, q.Total, rental.Total)
	assert.Equal(t, 150.0, rental.Items[0].UnitBasePrice)
	assert.Equal(t, domain.RentalUpcoming, rental.Status)
	assert.Equal(t, domain.RentalUnpaid, rental.PaymentStatus)
	assert.Equal(t, user.Name, rental.CustomerSnapshot.Name)

	assert.Equal(t, domain.QuotationExpired, converted.Status)
	require.NotNil(t, converted.ConvertedRentalID)
	assert.Equal(t, rental.ID, *converted.ConvertedRentalID)

	// No booking was created: the product stays in the available pool.
	reloaded, err := env.products.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Available, reloaded.Availability)
}

func TestConvertRequiresAccepted(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)

	_, _, err = env.svc.ConvertToRental(context.Background(), q.ID, ConvertRequest{})
	assert.ErrorIs(t, err, ErrNotAccepted)
}

func TestConvertRejectsExpiredValidity(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	req := quoteRequestFor(user.ID, product)
	past := time.Now().Add(-time.Hour)
	req.ValidUntil = &past

	q, err := env.svc.Create(context.Background(), req)
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationAccepted, "")
	require.NoError(t, err)

	_, _, err = env.svc.ConvertToRental(context.Background(), q.ID, ConvertRequest{})
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDeleteGuards(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(context.Background(), q.ID, domain.QuotationAccepted, "")
	require.NoError(t, err)

	err = env.svc.Delete(context.Background(), q.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	pending, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)
	require.NoError(t, env.svc.Delete(context.Background(), pending.ID))

	_, err = env.svc.Get(context.Background(), pending.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuotationStats(t *testing.T) {
	env := setupEnv(t)
	user := env.seedUser(t)
	product := env.seedProduct(t, domain.Available)

	q1, err := env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)
	_, err = env.svc.Create(context.Background(), quoteRequestFor(user.ID, product))
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(context.Background(), q1.ID, domain.QuotationAccepted, "")
	require.NoError(t, err)

	stats, err := env.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalQuotations)
	assert.Equal(t, 788.0, stats.TotalValue)
	assert.Equal(t, int64(1), stats.StatusBreakdown["pending"])
	assert.Equal(t, int64(1), stats.StatusBreakdown["accepted"])
	assert.Equal(t, 394.0, stats.StatusValue["accepted"])
}
