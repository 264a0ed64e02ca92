package application

import (
	"errors"
	"fmt"

	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
)

var (
	// ErrInvalidInput flags checkout requests rejected before any commit.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart indicates a checkout attempted against an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNumberCollision indicates the generator exhausted its retries
	// against the unique order number constraint.
	ErrOrderNumberCollision = errors.New("could not allocate a unique order number")
)

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, checkoutdomain.ErrMissingShippingAddress):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
