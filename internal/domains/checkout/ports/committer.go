package ports

import (
	"context"
	"errors"

	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

// ErrNumberTaken indicates the generated order number already exists. The
// engine retries with a fresh number.
var ErrNumberTaken = errors.New("order number already taken")

// CommitLine is one cart line handed to the committer. Unit prices are
// re-read from the catalog inside the commit so the catalog stays the pricing
// authority.
type CommitLine struct {
	ProductID int64
	Quantity  int
}

// CommitInput carries everything the committer needs to finalize a checkout.
type CommitInput struct {
	Owner           ordersdomain.Owner
	Number          string
	Lines           []CommitLine
	ShippingAddress string
	BillingAddress  string
	Policy          checkoutdomain.PricingPolicy
}

// Committer atomically decrements stock for every line, creates the order
// with its items, and appends purchase movements to the stock ledger. Either
// everything commits or nothing does: an insufficient line leaves all stock
// untouched and returns *catalogports.InsufficientStockError.
type Committer interface {
	Commit(ctx context.Context, input CommitInput) (*ordersdomain.Order, error)
}
