package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"flexirent/internal/config"
	"flexirent/internal/database"
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
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	bookingRepo := repository.NewProductBookingRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	pricer := pricing.NewEngine(cfg.Pricing)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(productRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	rentalService := rental.NewService(rentalRepo, productRepo, bookingRepo, userRepo, pricer, log.Printf)
	rentalHandler := rental.NewHandler(rentalService)

	quotationService := quotation.NewService(quotationRepo, productRepo, userRepo, rentalRepo, pricer, log.Printf)
	quotationHandler := quotation.NewHandler(quotationService)

	invoiceService := invoice.NewService(invoiceRepo, rentalRepo, log.Printf)
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
		cfg.FrontendURL,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger())

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		paymentHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			rentalHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			invoiceHandler.RegisterProtectedRoutes(protected)
		}

		admin := api.Group("/")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			catalogHandler.RegisterAdminRoutes(admin)
			rentalHandler.RegisterAdminRoutes(admin)
			quotationHandler.RegisterAdminRoutes(admin)
			paymentHandler.RegisterAdminRoutes(admin)
			invoiceHandler.RegisterAdminRoutes(admin)
		}
	}

	log.Printf("level=info msg=server_started port=%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
