package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flexirent/internal/config"
	"flexirent/internal/database"
	"flexirent/internal/domain"
	"flexirent/internal/middleware"
	"flexirent/internal/modules/auth"
	"flexirent/internal/modules/catalog"
	"flexirent/internal/modules/invoice"
	"flexirent/internal/modules/payment"
	"flexirent/internal/modules/pricing"
	"flexirent/internal/modules/quotation"
	"flexirent/internal/modules/rental"
	jwtsvc "flexirent/internal/pkg/jwt"
	"flexirent/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service

	adminToken string
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db))

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	bookingRepo := repository.NewProductBookingRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	pricer := pricing.NewEngine(config.DefaultPricing())

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	catalogHandler := catalog.NewHandler(catalog.NewService(productRepo))

	rentalService := rental.NewService(rentalRepo, productRepo, bookingRepo, userRepo, pricer, nil)
	rentalHandler := rental.NewHandler(rentalService)

	quotationService := quotation.NewService(quotationRepo, productRepo, userRepo, rentalRepo, pricer, nil)
	quotationHandler := quotation.NewHandler(quotationService)

	invoiceService := invoice.NewService(invoiceRepo, rentalRepo, nil)
	invoiceHandler := invoice.NewHandler(invoiceService)

	paymentService := payment.NewService(
		paymentRepo,
		rentalRepo,
		rentalService,
		userRepo,
		invoiceService,
		payment.NewMockGateway(),
		payment.NewHTTPStripeClient(),
		payment.NewPaytmClient(),
		"http://localhost:5173",
		nil,
	)
	paymentHandler := payment.NewHandler(paymentService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		paymentHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			rentalHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			invoiceHandler.RegisterProtectedRoutes(protected)
		}

		admin := api.Group("/")
		admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
		{
			catalogHandler.RegisterAdminRoutes(admin)
			rentalHandler.RegisterAdminRoutes(admin)
			quotationHandler.RegisterAdminRoutes(admin)
			paymentHandler.RegisterAdminRoutes(admin)
			invoiceHandler.RegisterAdminRoutes(admin)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminUser := &domain.User{
		Name:         "Admin User",
		Email:        "admin@flexirent.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, userRepo.Create(t.Context(), adminUser))

	adminToken, err := jwtService.GenerateToken(adminUser.ID, "admin")
	require.NoError(t, err)

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwt:        jwtService,
		adminToken: adminToken,
	}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) string {
	w := s.makeRequest(t, "POST", "/api/auth/register", map[string]interface{}{
		"name":     "Jamie Client",
		"email":    email,
		"password": "Password123!",
		"phone":    "+15550100",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	require.True(t, resp.Success)
	return resp.Data["token"].(string)
}

func (s *E2ETestSuite) createProduct(t *testing.T) float64 {
	w := s.makeRequest(t, "POST", "/api/products", map[string]interface{}{
		"name":           "Canon EOS R5 Camera",
		"category":       "cameras",
		"description":    "45MP mirrorless",
		"price_per_hour": 25,
		"price_per_day":  150,
		"price_per_week": 800,
		"add_ons": []map[string]interface{}{
			{"id": "addon_tripod", "name": "Carbon Tripod", "price": 20},
		},
	}, s.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	require.True(t, resp.Success)
	return resp.Data["id"].(float64)
}

func rentalPayload(productID float64) map[string]interface{} {
	start := time.Now().AddDate(0, 0, 3)
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"product_id":       int64(productID),
				"quantity":         1,
				"duration":         2,
				"duration_type":    "day",
				"selected_add_ons": []string{"addon_tripod"},
				"start_date":       start.Format(time.RFC3339),
				"end_date":         start.AddDate(0, 0, 2).Format(time.RFC3339),
			},
		},
		"payment_mode": "full",
		"customer": map[string]interface{}{
			"name":  "Jamie Client",
			"email": "jamie@flexirent.com",
		},
	}
}

func TestFlow_AuthAndCatalog(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.registerClient(t, "client@flexirent.com")

	t.Run("login returns a token", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/auth/login", map[string]interface{}{
			"email":    "client@flexirent.com",
			"password": "Password123!",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["token"])
	})

	t.Run("me returns profile", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/users/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "client@flexirent.com", resp.Data["email"])
	})

	t.Run("clients cannot create products", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/products", map[string]interface{}{
			"name": "Nope", "category": "cameras",
		}, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	productID := suite.createProduct(t)

	t.Run("public product listing", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/products?category=cameras", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		products := resp.Data["products"].([]interface{})
		require.Len(t, products, 1)

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/products/%d", int64(productID)), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFlow_RentalLifecycle(t *testing.T) {
	suite := setupTestSuite(t)
	token := suite.registerClient(t, "renter@flexirent.com")
	productID := suite.createProduct(t)

	w := suite.makeRequest(t, "POST", "/api/rentals", rentalPayload(productID), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	require.True(t, resp.Success)

	// 150*1*2 + 20 = 320; +5% fee +8% tax = 362
	assert.Equal(t, 320.0, resp.Data["subtotal"])
	assert.Equal(t, 16.0, resp.Data["service_fee"])
	assert.Equal(t, 26.0, resp.Data["tax"])
	assert.Equal(t, 362.0, resp.Data["total"])
	assert.Equal(t, "upcoming", resp.Data["status"])
	assert.Equal(t, "unpaid", resp.Data["payment_status"])
	rentalID := int64(resp.Data["id"].(float64))

	t.Run("product is booked while rented", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/products/%d", int64(productID)), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "booked", resp.Data["availability"])
	})

	t.Run("second rental of booked product fails", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/rentals", rentalPayload(productID), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other clients cannot see the rental", func(t *testing.T) {
		other := suite.registerClient(t, "stranger@flexirent.com")
		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/rentals/%d", rentalID), nil, other)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cancel releases the product", func(t *testing.T) {
		w := suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/rentals/%d/cancel", rentalID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		assert.Equal(t, "cancelled", resp.Data["status"])

		w = suite.makeRequest(t, "GET", fmt.Sprintf("/api/products/%d", int64(productID)), nil, "")
		resp = parseResponse(t, w)
		assert.Equal(t, "available", resp.Data["availability"])
	})
}

func TestFlow_PaymentAndInvoice(t *testing.T) {
	suite := setupTestSuite(t)
	token := suite.registerClient(t, "payer@flexirent.com")
	productID := suite.createProduct(t)

	w := suite.makeRequest(t, "POST", "/api/rentals", rentalPayload(productID), token)
	require.Equal(t, http.StatusCreated, w.Code)
	rentalID := int64(parseResponse(t, w).Data["id"].(float64))

	w = suite.makeRequest(t, "POST", "/api/payments/process", map[string]interface{}{
		"rental_id":      rentalID,
		"payment_method": "card",
		"amount":         362,
		"payment_type":   "full",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	require.True(t, resp.Success)

	paymentBlock := resp.Data["payment"].(map[string]interface{})
	assert.Equal(t, "succeeded", paymentBlock["status"])
	rentalBlock := resp.Data["rental"].(map[string]interface{})
	assert.Equal(t, "paid", rentalBlock["payment_status"])
	require.NotNil(t, resp.Data["invoice_id"], "payment should have generated an invoice")
	invoiceID := int64(resp.Data["invoice_id"].(float64))

	t.Run("invoice is paid and numbered", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", fmt.Sprintf("/api/invoices/%d", invoiceID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := parseResponse(t, w)
		inv := resp.Data["invoice"].(map[string]interface{})
		assert.Equal(t, "INV-000001", inv["invoice_number"])
		assert.Equal(t, "paid", inv["status"])
	})

	t.Run("duplicate invoice generation is rejected", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", "/api/invoices/generate", map[string]interface{}{
			"rental_id": rentalID,
		}, token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("payment history lists the charge", func(t *testing.T) {
		w := suite.makeRequest(t, "GET", "/api/payments/history", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		payments := resp.Data["payments"].([]interface{})
		require.Len(t, payments, 1)
	})
}

func TestFlow_QuotationToRental(t *testing.T) {
	suite := setupTestSuite(t)
	clientToken := suite.registerClient(t, "quoted@flexirent.com")
	productID := suite.createProduct(t)

	// quotations are an admin surface
	w := suite.makeRequest(t, "GET", "/api/quotations", nil, clientToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = suite.makeRequest(t, "GET", "/api/users/me", nil, clientToken)
	userID := int64(parseResponse(t, w).Data["id"].(float64))

	start := time.Now().AddDate(0, 0, 5)
	w = suite.makeRequest(t, "POST", "/api/quotations", map[string]interface{}{
		"user_id": userID,
		"items": []map[string]interface{}{
			{
				"product_id":       int64(productID),
				"quantity":         1,
				"duration":         2,
				"duration_type":    "day",
				"selected_add_ons": []string{"addon_tripod"},
				"start_date":       start.Format(time.RFC3339),
				"end_date":         start.AddDate(0, 0, 2).Format(time.RFC3339),
			},
		},
	}, suite.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)

	// 320 + 5% fee + 18% GST = 394
	assert.Equal(t, 320.0, resp.Data["subtotal"])
	assert.Equal(t, 394.0, resp.Data["total"])
	assert.Equal(t, "pending", resp.Data["status"])
	quotationID := int64(resp.Data["id"].(float64))

	t.Run("convert requires accepted status", func(t *testing.T) {
		w := suite.makeRequest(t, "POST", fmt.Sprintf("/api/quotations/%d/convert", quotationID), nil, suite.adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = suite.makeRequest(t, "PATCH", fmt.Sprintf("/api/quotations/%d/status", quotationID), map[string]interface{}{
		"status": "accepted",
	}, suite.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = suite.makeRequest(t, "POST", fmt.Sprintf("/api/quotations/%d/convert", quotationID), nil, suite.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = parseResponse(t, w)

	rentalBlock := resp.Data["rental"].(map[string]interface{})
	assert.Equal(t, 394.0, rentalBlock["total"])
	assert.Equal(t, "upcoming", rentalBlock["status"])

	quotationBlock := resp.Data["quotation"].(map[string]interface{})
	assert.Equal(t, "expired", quotationBlock["status"])
	assert.NotNil(t, quotationBlock["converted_rental_id"])
}
