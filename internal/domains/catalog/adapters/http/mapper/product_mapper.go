package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/monochra/storefront/internal/domains/catalog/domain"
)

// Product is the transport view of a catalog product.
type Product struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	Status        string `json:"status"`
}

// SaveProductRequest captures a back-office product upsert.
type SaveProductRequest struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Price         string `json:"price" binding:"required"`
	StockQuantity int    `json:"stockQuantity"`
}

// ToDomain validates the payload and builds the aggregate.
func (r SaveProductRequest) ToDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, err
	}
	return domain.NewProduct(r.ID, r.SKU, r.Name, price, r.StockQuantity)
}

// FromProduct converts a product for transport.
func FromProduct(product *domain.Product) Product {
	return Product{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Price:         product.Price.StringFixed(2),
		StockQuantity: product.StockQuantity,
		Status:        string(product.Status),
	}
}

// FromProductList converts products for transport.
func FromProductList(products []*domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromProduct(product))
	}
	return out
}
