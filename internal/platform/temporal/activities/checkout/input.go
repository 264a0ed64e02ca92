package checkout

import (
	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
)

// ClearCartInput identifies the cart to empty. Kept flat so Temporal's JSON
// converter round-trips it without custom codecs.
type ClearCartInput struct {
	Kind string
	Key  string
}

// NewClearCartInput converts a cart owner into the activity payload.
func NewClearCartInput(owner cartsdomain.Owner) ClearCartInput {
	return ClearCartInput{Kind: string(owner.Kind), Key: owner.Key}
}

func (i ClearCartInput) toDomain() cartsdomain.Owner {
	return cartsdomain.Owner{Kind: cartsdomain.OwnerKind(i.Kind), Key: i.Key}
}
