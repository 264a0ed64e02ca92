package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	cartsports "github.com/monochra/storefront/internal/domains/carts/ports"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	checkoutports "github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

const (
	// CommitOrderActivityName atomically commits stock, order, and ledger rows.
	CommitOrderActivityName = "checkout.activities.CommitOrder"
	// ClearCartActivityName empties the source cart after the order exists.
	ClearCartActivityName = "checkout.activities.ClearCart"

	// ErrTypeNumberTaken marks order number collisions crossing the activity
	// boundary so the caller can regenerate and retry.
	ErrTypeNumberTaken = "OrderNumberTaken"
	// ErrTypeInsufficientStock marks oversell rejections crossing the
	// activity boundary.
	ErrTypeInsufficientStock = "InsufficientStock"
)

// Activities groups the checkout Temporal activities.
type Activities struct {
	committer checkoutports.Committer
	carts     cartsports.Service
}

// NewActivities wires the checkout collaborators into the activities bundle.
func NewActivities(committer checkoutports.Committer, carts cartsports.Service) *Activities {
	return &Activities{committer: committer, carts: carts}
}

// CommitOrder runs the atomic checkout commit. Commit failures that represent
// business outcomes (collision, oversell) are surfaced as typed non-retryable
// errors; retrying a failed commit is never safe because the decrement is not
// idempotent.
func (a *Activities) CommitOrder(ctx context.Context, input checkoutports.CommitInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.committer == nil {
		return nil, errors.New("checkout commit activity not initialized")
	}
	logger.Info("CommitOrder activity started", "orderNumber", input.Number)
	order, err := a.committer.Commit(ctx, input)
	if err != nil {
		logger.Error("CommitOrder activity failed", "orderNumber", input.Number, "error", err)
		if errors.Is(err, checkoutports.ErrNumberTaken) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNumberTaken, err)
		}
		var insufficient *catalogports.InsufficientStockError
		if errors.As(err, &insufficient) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, err, *insufficient)
		}
		return nil, err
	}
	logger.Info("CommitOrder activity completed", "orderId", order.ID, "orderNumber", order.Number)
	return order, nil
}

// ClearCart empties the cart that produced the order. Clearing is idempotent
// so the activity retries safely across worker crashes.
func (a *Activities) ClearCart(ctx context.Context, owner ClearCartInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.carts == nil {
		return errors.New("checkout clear-cart activity not initialized")
	}
	logger.Info("ClearCart activity started", "ownerKind", owner.Kind, "ownerKey", owner.Key)
	if err := a.carts.Clear(ctx, owner.toDomain()); err != nil {
		logger.Error("ClearCart activity failed", "ownerKind", owner.Kind, "ownerKey", owner.Key, "error", err)
		return err
	}
	logger.Info("ClearCart activity completed", "ownerKind", owner.Kind, "ownerKey", owner.Key)
	return nil
}
