package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPrice_BelowFreeShippingThreshold(t *testing.T) {
	policy := DefaultPricingPolicy()

	// Two units at $10 plus one at $50: subtotal 70, flat shipping, 8% tax.
	totals := policy.Price(decimal.NewFromInt(70))

	require.Equal(t, "70.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "10.00", totals.Shipping.StringFixed(2))
	require.Equal(t, "5.60", totals.Tax.StringFixed(2))
	require.Equal(t, "85.60", totals.Total.StringFixed(2))
}

func TestPrice_ShippingOnlyWaivedAboveThreshold(t *testing.T) {
	policy := DefaultPricingPolicy()

	atThreshold := policy.Price(decimal.NewFromInt(100))
	require.Equal(t, "10.00", atThreshold.Shipping.StringFixed(2))
	require.Equal(t, "8.00", atThreshold.Tax.StringFixed(2))
	require.Equal(t, "118.00", atThreshold.Total.StringFixed(2))

	aboveThreshold := policy.Price(decimal.RequireFromString("100.01"))
	require.Equal(t, "0.00", aboveThreshold.Shipping.StringFixed(2))
	require.Equal(t, "108.01", aboveThreshold.Total.StringFixed(2))
}

func TestPrice_RoundsTaxToCents(t *testing.T) {
	policy := DefaultPricingPolicy()

	totals := policy.Price(decimal.RequireFromString("19.99"))

	// 19.99 * 0.08 = 1.5992, rounded to 1.60.
	require.Equal(t, "1.60", totals.Tax.StringFixed(2))
	require.Equal(t, "31.59", totals.Total.StringFixed(2))
}

func TestPrice_TaxExcludesShipping(t *testing.T) {
	policy := DefaultPricingPolicy()

	totals := policy.Price(decimal.NewFromInt(50))

	// Tax applies to the 50 subtotal only, not the 10 shipping.
	require.Equal(t, "4.00", totals.Tax.StringFixed(2))
	require.Equal(t, "64.00", totals.Total.StringFixed(2))
}

func TestNewOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	number, err := NewOrderNumber(now)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^ORD-20260314-[0-9A-F]{6}$`), number)
}

func TestNewOrderNumber_VariesAcrossCalls(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		number, err := NewOrderNumber(now)
		require.NoError(t, err)
		seen[number] = struct{}{}
	}
	require.Greater(t, len(seen), 1)
}

func TestRequestNormalize(t *testing.T) {
	req := Request{ShippingAddress: "1 Main St"}
	require.NoError(t, req.Normalize())
	require.Equal(t, "1 Main St", req.BillingAddress)

	empty := Request{}
	require.ErrorIs(t, empty.Normalize(), ErrMissingShippingAddress)
}
