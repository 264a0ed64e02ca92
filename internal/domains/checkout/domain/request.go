package domain

import "errors"

var (
	// ErrMissingShippingAddress indicates a checkout without a shipping address.
	ErrMissingShippingAddress = errors.New("shipping address is required")
)

// Request carries the buyer-supplied inputs to a checkout. The billing
// address defaults to the shipping address when left blank.
type Request struct {
	ShippingAddress string
	BillingAddress  string
}

// Normalize validates the request and fills defaults.
func (r *Request) Normalize() error {
	if r.ShippingAddress == "" {
		return ErrMissingShippingAddress
	}
	if r.BillingAddress == "" {
		r.BillingAddress = r.ShippingAddress
	}
	return nil
}
