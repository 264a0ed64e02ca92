package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression. Orders are created pending; delivered
// and cancelled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// OwnerKind mirrors the cart's owner model: a session or a user identity.
type OwnerKind string

const (
	OwnerSession OwnerKind = "session"
	OwnerUser    OwnerKind = "user"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	ErrInvalidOwner      = errors.New("order owner must have a kind and a key")
	ErrEmptyNumber       = errors.New("order number is required")
	ErrNoItems           = errors.New("order must have at least one item")
	ErrInvalidItem       = errors.New("order item must have a product and a positive quantity")
)

// Owner identifies who placed the order.
type Owner struct {
	Kind OwnerKind
	Key  string
}

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

// Item is a frozen copy of a cart line at commit time. It is never recomputed
// from the current product price and never updated after creation.
type Item struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is the immutable record produced by a successful checkout commit.
// Only the status ever changes, and only along the allowed transitions.
type Order struct {
	ID              int64
	Number          string
	Owner           Owner
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	Status          Status
	ShippingAddress string
	BillingAddress  string
	CreatedAt       time.Time
	Items           []Item
}

// NewOrder validates and constructs an order in the pending state.
func NewOrder(number string, owner Owner, items []Item, subtotal, tax, shipping, total decimal.Decimal, shippingAddr, billingAddr string) (*Order, error) {
	order := &Order{
		Number:          strings.TrimSpace(number),
		Owner:           owner,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        shipping,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shippingAddr,
		BillingAddress:  billingAddr,
		Items:           append([]Item{}, items...),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Number == "" {
		return ErrEmptyNumber
	}
	if err := o.Owner.Validate(); err != nil {
		return err
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// CanTransition reports whether the status machine allows moving to next.
func (o *Order) CanTransition(next Status) bool {
	switch o.Status {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	default:
		return false
	}
}

// Transition applies a status change, rejecting invalid targets and moves out
// of terminal states.
func (o *Order) Transition(next Status) error {
	if !isValidStatus(next) {
		return ErrInvalidStatus
	}
	if !o.CanTransition(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	return nil
}

// ParseStatus validates an inbound status string.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !isValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
