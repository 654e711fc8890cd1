package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"flexirent/internal/database"
	"flexirent/internal/domain"
	"flexirent/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return NewService(repository.NewProductRepository(db))
}

func createProduct(t *testing.T, svc *Service, name, category string) *domain.Product {
	t.Helper()
	p, err := svc.Create(context.Background(), 1, CreateProductRequest{
		Name:         name,
		Category:     category,
		PricePerHour: 25,
		PricePerDay:  150,
		PricePerWeek: 800,
		AddOns:       []AddOnInput{{Name: "Tripod", Price: 20}},
	})
	require.NoError(t, err)
	return p
}

func TestCreateAssignsAddOnIDs(t *testing.T) {
	svc := setupService(t)

	p := createProduct(t, svc, "DSLR Camera", "cameras")

	require.Len(t, p.AddOns, 1)
	assert.True(t, strings.HasPrefix(p.AddOns[0].ID, "addon_"))
	assert.Equal(t, domain.Available, p.Availability)
	assert.True(t, p.IsActive)
}

func TestCreateKeepsClientAddOnID(t *testing.T) {
	svc := setupService(t)

	p, err := svc.Create(context.Background(), 1, CreateProductRequest{
		Name:     "Drone",
		Category: "drones",
		AddOns:   []AddOnInput{{ID: "addon_custom", Name: "Extra Props", Price: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "addon_custom", p.AddOns[0].ID)
}

func TestGetUnknownProduct(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Get(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialFields(t *testing.T) {
	svc := setupService(t)
	p := createProduct(t, svc, "DSLR Camera", "cameras")

	newPrice := 200.0
	updated, err := svc.Update(context.Background(), 2, p.ID, UpdateProductRequest{
		PricePerDay: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, updated.PricePerDay)
	assert.Equal(t, "DSLR Camera", updated.Name)
	assert.Equal(t, int64(2), updated.UpdatedBy)
}

func TestUpdateRejectsBadAvailability(t *testing.T) {
	svc := setupService(t)
	p := createProduct(t, svc, "DSLR Camera", "cameras")

	bad := "maybe"
	_, err := svc.Update(context.Background(), 1, p.ID, UpdateProductRequest{Availability: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSoftDeleteHidesProduct(t *testing.T) {
	svc := setupService(t)
	p := createProduct(t, svc, "DSLR Camera", "cameras")

	require.NoError(t, svc.Delete(context.Background(), 1, p.ID))

	_, err := svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still visible to admin listings.
	products, total, err := svc.List(context.Background(), ListQuery{}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.False(t, products[0].IsActive)

	// Hidden from the public listing.
	_, total, err = svc.List(context.Background(), ListQuery{}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSetAvailability(t *testing.T) {
	svc := setupService(t)
	p := createProduct(t, svc, "DSLR Camera", "cameras")

	updated, err := svc.SetAvailability(context.Background(), p.ID, domain.Booked)
	require.NoError(t, err)
	assert.Equal(t, domain.Booked, updated.Availability)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc := setupService(t)
	createProduct(t, svc, "DSLR Camera", "cameras")
	createProduct(t, svc, "Cinema Camera", "cameras")
	createProduct(t, svc, "Party Tent", "events")

	products, total, err := svc.List(context.Background(), ListQuery{Category: "cameras"}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	products, total, err = svc.List(context.Background(), ListQuery{Search: "Tent"}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Party Tent", products[0].Name)

	products, total, err = svc.List(context.Background(), ListQuery{Page: 2, Limit: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 1)
}

func TestCategories(t *testing.T) {
	svc := setupService(t)
	createProduct(t, svc, "DSLR Camera", "cameras")
	createProduct(t, svc, "Cinema Camera", "cameras")
	createProduct(t, svc, "Party Tent", "events")

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cameras", "events"}, categories)
}
