package checkout

import (
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/platform/temporal/sequences"
)

const (
	// PlaceOrderWorkflowName is the public identifier for registering the workflow.
	PlaceOrderWorkflowName = "checkout.workflows.PlaceOrder"
	// PlaceOrderTaskQueue is the queue consumed by the worker processing checkout workflows.
	PlaceOrderTaskQueue = "CHECKOUT_PLACE_ORDER"
)

// PlaceOrderWorkflowInput captures the payload required to finalize a checkout.
type PlaceOrderWorkflowInput struct {
	Command checkoutports.PlaceOrderInput
	TraceID string
}

// PlaceOrderWorkflow orchestrates the activities that finalize a checkout.
func PlaceOrderWorkflow(ctx workflow.Context, input PlaceOrderWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PlaceOrderWorkflow started", withTraceID(input.TraceID, "orderNumber", input.Command.Commit.Number)...)
	order, err := sequences.RunCheckoutCommitSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PlaceOrderWorkflow failed", withTraceID(input.TraceID, "orderNumber", input.Command.Commit.Number, "error", err)...)
		return nil, err
	}
	logger.Info("PlaceOrderWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
