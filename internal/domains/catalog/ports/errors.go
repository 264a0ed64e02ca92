package ports

import "fmt"

// InsufficientStockError reports a stock change that would drive a product's
// on-hand quantity below zero. Carried verbatim to callers so the storefront
// can render "only N left".
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
