package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	checkoutactivities "github.com/monochra/storefront/internal/platform/temporal/activities/checkout"
)

// RunCheckoutCommitSequence executes the ordered steps that finalize a
// checkout: the atomic commit, then the idempotent cart clear.
func RunCheckoutCommitSequence(ctx workflow.Context, input checkoutports.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout commit sequence started", "orderNumber", input.Commit.Number)

	// The commit is not idempotent: a retried decrement would double-charge
	// stock. Business rejections arrive as non-retryable typed errors.
	commitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	clearOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, commitOptions),
		checkoutactivities.CommitOrderActivityName,
		input.Commit,
	).Get(ctx, &order)
	if err != nil {
		logger.Error("checkout commit sequence failed", "orderNumber", input.Commit.Number, "error", err)
		return nil, err
	}
	logger.Info("checkout commit sequence committed", "orderId", order.ID, "orderNumber", order.Number)

	clearInput := checkoutactivities.NewClearCartInput(input.CartOwner)
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, clearOptions),
		checkoutactivities.ClearCartActivityName,
		clearInput,
	).Get(ctx, nil); err != nil {
		// The order is already committed; surfacing the error would suggest
		// the checkout failed. Log and return the order.
		logger.Error("checkout commit sequence cart clear failed", "orderId", order.ID, "error", err)
		return &order, nil
	}
	logger.Info("checkout commit sequence completed", "orderId", order.ID)
	return &order, nil
}
