package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Status marks whether a product is sellable.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Stock level thresholds for the back-office low-stock report.
const (
	LowStockThreshold      = 10
	CriticalStockThreshold = 5
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product is the catalog aggregate. The transaction core only ever mutates
// StockQuantity, and only through the atomic decrement and ledger paths.
type Product struct {
	ID            int64
	SKU           string
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Status        Status
}

// NewProduct validates invariants and builds a Product.
func NewProduct(id int64, sku, name string, price decimal.Decimal, stock int) (*Product, error) {
	p := &Product{ID: id, SKU: sku, Status: StatusActive}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice replaces the unit price.
func (p *Product) Reprice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// SetStock overwrites the on-hand quantity.
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	p.StockQuantity = quantity
	return nil
}

// StockLevel classifies the on-hand quantity for reporting.
func (p *Product) StockLevel() string {
	switch {
	case p.StockQuantity == 0:
		return "out_of_stock"
	case p.StockQuantity <= CriticalStockThreshold:
		return "critical"
	case p.StockQuantity <= LowStockThreshold:
		return "low"
	default:
		return "ok"
	}
}
