package main

import (
	"context"
	"log"
	"os"

	"flexirent/internal/database"
	"flexirent/internal/domain"
	"flexirent/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "flexirent.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed: ", err)
	}

	// Cleanup old data (children first to keep foreign keys happy)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM invoices")
	db.Exec("DELETE FROM invoice_counters")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM product_bookings")
	db.Exec("DELETE FROM quotations")
	db.Exec("DELETE FROM rentals")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)

	log.Println("Creating users...")
	admin := seedUser(ctx, users, "Admin User", "admin@flexirent.com", "admin123", "+1234567890", domain.RoleAdmin)
	log.Println("Admin created: admin@flexirent.com / admin123")

	seedUser(ctx, users, "Jane Customer", "customer@flexirent.com", "password123", "+1555666777", domain.RoleClient)
	seedUser(ctx, users, "Alice Renter", "renter@flexirent.com", "renter123", "+1444555666", domain.RoleClient)
	log.Println("Clients created: customer@flexirent.com / password123, renter@flexirent.com / renter123")

	log.Println("Creating products...")
	catalog := []domain.Product{
		{
			Name:         "Canon EOS R5 Camera",
			Category:     "cameras",
			Description:  "45MP full-frame mirrorless camera with 8K video.",
			PricePerHour: 25,
			PricePerDay:  150,
			PricePerWeek: 800,
			Features:     []string{"45MP sensor", "8K video", "In-body stabilization"},
			AddOns: []domain.AddOn{
				{ID: "addon_tripod", Name: "Carbon Tripod", Price: 20},
				{ID: "addon_lens_kit", Name: "Prime Lens Kit", Price: 60},
			},
		},
		{
			Name:         "DJI Mavic 3 Drone",
			Category:     "drones",
			Description:  "Professional drone with Hasselblad camera and 46 min flight time.",
			PricePerHour: 40,
			PricePerDay:  220,
			PricePerWeek: 1100,
			Features:     []string{"4/3 CMOS sensor", "46 min flight", "Omnidirectional sensing"},
			AddOns: []domain.AddOn{
				{ID: "addon_batteries", Name: "Extra Battery Pack", Price: 35},
			},
		},
		{
			Name:         "Godox Lighting Kit",
			Category:     "lighting",
			Description:  "Two-head studio strobe kit with softboxes and stands.",
			PricePerHour: 15,
			PricePerDay:  80,
			PricePerWeek: 420,
			Features:     []string{"2x 400W strobes", "Softboxes", "Wireless trigger"},
			AddOns: []domain.AddOn{
				{ID: "addon_backdrop", Name: "Backdrop Set", Price: 15},
			},
		},
		{
			Name:         "Rode Wireless GO II",
			Category:     "audio",
			Description:  "Dual-channel wireless microphone system.",
			PricePerHour: 10,
			PricePerDay:  45,
			PricePerWeek: 240,
			Features:     []string{"Dual channel", "200m range", "On-board recording"},
		},
	}
	for i := range catalog {
		p := &catalog[i]
		p.Availability = domain.Available
		p.IsActive = true
		p.CreatedBy = admin.ID
		if err := products.Create(ctx, p); err != nil {
			log.Fatal("product seed failed: ", err)
		}
		log.Printf("Product created: %s (%s)", p.Name, p.Category)
	}

	log.Println("Database seeded successfully")
}

func seedUser(ctx context.Context, users *repository.UserRepository, name, email, password, phone string, role domain.Role) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		Role:         role,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("user seed failed: ", err)
	}
	return u
}
