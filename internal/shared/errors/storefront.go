package errors

import (
	"fmt"
	"net/http"
)

// Storefront problem types.
const (
	TypeInsufficientStock = "/problems/insufficient-stock"
	TypeEmptyCart         = "/problems/empty-cart"
	TypeInvalidTransition = "/problems/invalid-status-transition"
)

// NewInsufficientStockProblem reports an oversell rejection with the figures
// the buyer needs to adjust their cart.
func NewInsufficientStockProblem(productID int64, requested, available int) ProblemDetail {
	return ProblemDetail{
		Type:   TypeInsufficientStock,
		Title:  "Insufficient Stock",
		Status: http.StatusConflict,
	}.
		WithDetail(fmt.Sprintf("product %d has %d in stock, %d requested", productID, available, requested)).
		WithExtension("productId", productID).
		WithExtension("requested", requested).
		WithExtension("available", available)
}

// NewEmptyCartProblem rejects a checkout against an empty cart.
func NewEmptyCartProblem() ProblemDetail {
	return ProblemDetail{
		Type:   TypeEmptyCart,
		Title:  "Empty Cart",
		Status: http.StatusUnprocessableEntity,
		Detail: "the cart has no lines to check out",
	}
}

// NewInvalidTransitionProblem rejects a disallowed order status change.
func NewInvalidTransitionProblem(current, requested string) ProblemDetail {
	return ProblemDetail{
		Type:   TypeInvalidTransition,
		Title:  "Invalid Status Transition",
		Status: http.StatusConflict,
	}.
		WithDetail(fmt.Sprintf("cannot move order from %s to %s", current, requested)).
		WithExtension("currentStatus", current).
		WithExtension("requestedStatus", requested)
}
