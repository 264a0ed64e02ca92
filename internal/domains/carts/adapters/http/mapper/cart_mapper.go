package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/monochra/storefront/internal/domains/carts/domain"
)

// Line is the HTTP representation of a cart line.
type Line struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// Cart is the HTTP representation of a cart snapshot.
type Cart struct {
	Lines    []Line `json:"lines"`
	Subtotal string `json:"subtotal"`
	Count    int    `json:"count"`
}

// AddItemRequest captures the inbound add-to-cart payload.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// UpdateQuantityRequest captures the inbound quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// MergeRequest identifies the guest session folded into the signed-in user's cart.
type MergeRequest struct {
	SessionKey string `json:"sessionKey" binding:"required"`
}

// FromSnapshot converts a cart snapshot for transport.
func FromSnapshot(snapshot domain.Snapshot) Cart {
	cart := Cart{Lines: make([]Line, 0, len(snapshot.Lines)), Subtotal: snapshot.Subtotal.StringFixed(2)}
	for _, line := range snapshot.Lines {
		cart.Lines = append(cart.Lines, Line{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPriceSnapshot.StringFixed(2),
			LineTotal: line.Subtotal().StringFixed(2),
		})
		cart.Count += line.Quantity
	}
	return cart
}

// Money renders a decimal amount with two places for transport.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
