package domain

import (
	"errors"
	"time"
)

// Reason tags why a product's quantity changed.
type Reason string

const (
	ReasonRestock    Reason = "restock"
	ReasonPurchase   Reason = "purchase"
	ReasonAdjustment Reason = "adjustment"
	ReasonCancel     Reason = "cancel"
)

var (
	ErrInvalidProductID = errors.New("movement product id must be greater than zero")
	ErrZeroChange       = errors.New("movement quantity change must not be zero")
	ErrInvalidReason    = errors.New("movement reason is invalid")
	ErrWrongDirection   = errors.New("movement quantity change has the wrong sign for its reason")
)

// Movement is one append-only ledger entry. Entries are immutable once
// written; replaying a product's entries against its seed quantity must
// always equal its live stock.
type Movement struct {
	ID               int64
	ProductID        int64
	QuantityChange   int
	Reason           Reason
	ReferenceOrderID *int64
	Note             string
	CreatedAt        time.Time
}

// NewMovement validates and constructs a ledger entry.
func NewMovement(productID int64, change int, reason Reason, refOrderID *int64, note string) (*Movement, error) {
	m := &Movement{
		ProductID:        productID,
		QuantityChange:   change,
		Reason:           reason,
		ReferenceOrderID: refOrderID,
		Note:             note,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate enforces invariants on the entry.
func (m *Movement) Validate() error {
	if m.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if m.QuantityChange == 0 {
		return ErrZeroChange
	}
	switch m.Reason {
	case ReasonRestock, ReasonCancel:
		if m.QuantityChange < 0 {
			return ErrWrongDirection
		}
	case ReasonPurchase:
		if m.QuantityChange > 0 {
			return ErrWrongDirection
		}
	case ReasonAdjustment:
		// adjustments may move stock either way
	default:
		return ErrInvalidReason
	}
	return nil
}
