package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	cartspostgres "github.com/monochra/storefront/internal/domains/carts/adapters/persistence/postgres"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	SessionTTL        time.Duration
	Pricing           checkoutdomain.PricingPolicy
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SessionTTL:        cartspostgres.DefaultSessionTTL,
		Pricing:           checkoutdomain.DefaultPricingPolicy(),
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if err := overrideRate(&cfg.Pricing.TaxRate, "TAX_RATE"); err != nil {
		return Config{}, err
	}
	if err := overrideRate(&cfg.Pricing.FreeShippingThreshold, "FREE_SHIPPING_THRESHOLD"); err != nil {
		return Config{}, err
	}
	if err := overrideRate(&cfg.Pricing.FlatShippingFee, "FLAT_SHIPPING_FEE"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideRate(target *decimal.Decimal, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return fmt.Errorf("%s must be a non-negative decimal", key)
	}
	*target = value
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
