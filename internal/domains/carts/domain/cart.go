package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// OwnerKind distinguishes anonymous sessions from authenticated users.
type OwnerKind string

const (
	OwnerSession OwnerKind = "session"
	OwnerUser    OwnerKind = "user"
)

var (
	ErrInvalidOwner    = errors.New("cart owner must have a kind and a key")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Owner identifies who a cart belongs to. It is an explicit value passed into
// every call; there is no ambient session state.
type Owner struct {
	Kind OwnerKind
	Key  string
}

// SessionOwner builds an owner for an anonymous session key.
func SessionOwner(key string) Owner { return Owner{Kind: OwnerSession, Key: key} }

// UserOwner builds an owner for an authenticated user key.
func UserOwner(key string) Owner { return Owner{Kind: OwnerUser, Key: key} }

// Validate enforces the owner invariant: exactly one identity, never both.
func (o Owner) Validate() error {
	if strings.TrimSpace(o.Key) == "" {
		return ErrInvalidOwner
	}
	switch o.Kind {
	case OwnerSession, OwnerUser:
		return nil
	default:
		return ErrInvalidOwner
	}
}

// Line is one cart entry keyed by (owner, product). UnitPriceSnapshot is the
// price seen at add time; checkout re-validates against the live price and
// never trusts this value for money decisions.
type Line struct {
	Owner             Owner
	ProductID         int64
	Quantity          int
	UnitPriceSnapshot decimal.Decimal
}

// Subtotal is the snapshot price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a read-only view of a cart. An empty cart is a valid,
// representable state.
type Snapshot struct {
	Owner    Owner
	Lines    []Line
	Subtotal decimal.Decimal
}

// NewSnapshot computes the subtotal over the given lines.
func NewSnapshot(owner Owner, lines []Line) Snapshot {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return Snapshot{Owner: owner, Lines: lines, Subtotal: subtotal}
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }
