package application

import (
	"errors"
	"fmt"

	"github.com/monochra/storefront/internal/domains/carts/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrProductNotFound signals the catalog lookup failed for the product.
	ErrProductNotFound = errors.New("product not found in catalog")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOwner) ||
		errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
