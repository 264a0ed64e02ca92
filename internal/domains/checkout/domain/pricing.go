package domain

import (
	"github.com/shopspring/decimal"
)

// PricingPolicy captures the storefront's charge rules. Zero-value policies
// are not useful; construct via DefaultPricingPolicy or config.
type PricingPolicy struct {
	// TaxRate is applied to the subtotal, e.g. 0.08 for 8%.
	TaxRate decimal.Decimal
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold decimal.Decimal
	// FlatShippingFee is charged when the subtotal does not clear the threshold.
	FlatShippingFee decimal.Decimal
}

// DefaultPricingPolicy returns the stock storefront rates: 8% tax, $10 flat
// shipping waived above $100.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               decimal.NewFromFloat(0.08),
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(10),
	}
}

// Totals is the priced breakdown of a checkout. All amounts are rounded to
// cents.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Price computes totals for a subtotal under this policy. Shipping is decided
// on the pre-tax subtotal; tax applies to the subtotal only, not shipping.
func (p PricingPolicy) Price(subtotal decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	shipping := p.FlatShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax).Round(2),
	}
}
