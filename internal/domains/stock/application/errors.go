package application

import (
	"errors"
	"fmt"

	"github.com/monochra/storefront/internal/domains/stock/domain"
)

// ErrInvalidInput signals the request violated a ledger invariant.
var ErrInvalidInput = errors.New("invalid stock movement input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrZeroChange) ||
		errors.Is(err, domain.ErrInvalidReason) ||
		errors.Is(err, domain.ErrWrongDirection) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
