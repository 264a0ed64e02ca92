package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	cartsports "github.com/monochra/storefront/internal/domains/carts/ports"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
	checkoutactivities "github.com/monochra/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/monochra/storefront/internal/platform/temporal/workflows/checkout"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckoutWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckoutWorkflows)(nil)
)

// TemporalCheckoutWorkflows starts checkout workflows on a Temporal cluster.
type TemporalCheckoutWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCheckoutWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCheckoutWorkflows(c client.Client) *TemporalCheckoutWorkflows {
	return &TemporalCheckoutWorkflows{client: c, taskQueue: checkoutworkflows.PlaceOrderTaskQueue}
}

// PlaceOrder starts the Temporal workflow that finalizes a checkout and waits
// for its result. The order number makes the workflow ID unique per attempt.
func (o *TemporalCheckoutWorkflows) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("checkout-place-order-%s", input.Commit.Number),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.PlaceOrderWorkflow,
		checkoutworkflows.PlaceOrderWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		// Another attempt with the same order number is already running,
		// so the number is taken as far as the engine is concerned.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, ports.ErrNumberTaken
		}
		return nil, err
	}
	var order ordersdomain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &order, nil
}

// translateWorkflowError restores typed business errors that crossed the
// Temporal boundary as application errors.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case checkoutactivities.ErrTypeNumberTaken:
		return ports.ErrNumberTaken
	case checkoutactivities.ErrTypeInsufficientStock:
		var insufficient catalogports.InsufficientStockError
		if detailErr := appErr.Details(&insufficient); detailErr == nil {
			return &insufficient
		}
		return err
	default:
		return err
	}
}

// InlineCheckoutWorkflows executes the commit directly without Temporal,
// useful for tests or dev fallbacks. The cart clear is best-effort: the
// order already exists, so a failed clear must not fail the checkout.
type InlineCheckoutWorkflows struct {
	committer ports.Committer
	carts     cartsports.Service
}

// NewInlineCheckoutWorkflows wraps the committer for synchronous execution.
func NewInlineCheckoutWorkflows(committer ports.Committer, carts cartsports.Service) *InlineCheckoutWorkflows {
	return &InlineCheckoutWorkflows{committer: committer, carts: carts}
}

// PlaceOrder commits the checkout and clears the cart synchronously.
func (o *InlineCheckoutWorkflows) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ordersdomain.Order, error) {
	if o == nil || o.committer == nil {
		return nil, errors.New("inline checkout workflows not configured")
	}
	order, err := o.committer.Commit(ctx, input.Commit)
	if err != nil {
		return nil, err
	}
	if o.carts != nil {
		_ = o.carts.Clear(ctx, input.CartOwner)
	}
	return order, nil
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
