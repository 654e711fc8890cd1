package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Rates are the percentage surcharges applied to a subtotal.
type Rates struct {
	ServiceFee float64
	Tax        float64
}

// Pricing holds the per-workflow rate tables. Rental and quotation creation
// historically charge different tax rates (8% vs 18% GST); both are kept
// explicit here instead of being hard-coded at the call sites.
type Pricing struct {
	Rental      Rates
	Quotation   Rates
	DepositRate float64
}

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	FrontendURL string
	Pricing     Pricing
}

// Load reads configuration from the environment. A .env file is honored in
// development if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		DatabaseURL: envOrDefault("DATABASE_URL", "flexirent.db"),
		JWTSecret:   secret,
		JWTTTL:      24 * time.Hour,
		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:5173"),
		Pricing:     DefaultPricing(),
	}

	if ttl := os.Getenv("JWT_TTL_HOURS"); ttl != "" {
		hours, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL_HOURS: %w", err)
		}
		cfg.JWTTTL = time.Duration(hours) * time.Hour
	}

	return cfg, nil
}

// DefaultPricing mirrors the business rules in production: 5% service fee
// everywhere, 8% tax on rentals, 18% GST on quotations, 30% deposits.
func DefaultPricing() Pricing {
	return Pricing{
		Rental:      Rates{ServiceFee: 0.05, Tax: 0.08},
		Quotation:   Rates{ServiceFee: 0.05, Tax: 0.18},
		DepositRate: 0.30,
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
