package mapper

import (
	"time"

	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	"github.com/monochra/storefront/internal/domains/stock/domain"
)

// Movement is the transport view of one ledger entry.
type Movement struct {
	ID               int64  `json:"id"`
	ProductID        int64  `json:"productId"`
	QuantityChange   int    `json:"quantityChange"`
	Reason           string `json:"reason"`
	ReferenceOrderID *int64 `json:"referenceOrderId,omitempty"`
	Note             string `json:"note,omitempty"`
	CreatedAt        string `json:"createdAt"`
}

// RestockRequest captures an inbound restock.
type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Note     string `json:"note"`
}

// AdjustRequest captures an inbound manual correction.
type AdjustRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Note  string `json:"note"`
}

// LowStockProduct is the transport view of a product under its threshold.
type LowStockProduct struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stockQuantity"`
	Level         string `json:"level"`
}

// FromMovement converts a ledger entry for transport.
func FromMovement(movement *domain.Movement) Movement {
	return Movement{
		ID:               movement.ID,
		ProductID:        movement.ProductID,
		QuantityChange:   movement.QuantityChange,
		Reason:           string(movement.Reason),
		ReferenceOrderID: movement.ReferenceOrderID,
		Note:             movement.Note,
		CreatedAt:        movement.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromMovementList converts ledger entries for transport.
func FromMovementList(movements []*domain.Movement) []Movement {
	out := make([]Movement, 0, len(movements))
	for _, movement := range movements {
		out = append(out, FromMovement(movement))
	}
	return out
}

// FromLowStockList converts products under threshold for transport.
func FromLowStockList(products []*catalogdomain.Product) []LowStockProduct {
	out := make([]LowStockProduct, 0, len(products))
	for _, product := range products {
		out = append(out, LowStockProduct{
			ID:            product.ID,
			SKU:           product.SKU,
			Name:          product.Name,
			StockQuantity: product.StockQuantity,
			Level:         product.StockLevel(),
		})
	}
	return out
}
