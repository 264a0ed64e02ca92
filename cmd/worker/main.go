package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	cartsmemory "github.com/monochra/storefront/internal/domains/carts/adapters/memory"
	cartspostgres "github.com/monochra/storefront/internal/domains/carts/adapters/persistence/postgres"
	cartsapp "github.com/monochra/storefront/internal/domains/carts/application"
	cartsports "github.com/monochra/storefront/internal/domains/carts/ports"
	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/monochra/storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/monochra/storefront/internal/domains/catalog/application"
	checkoutmemory "github.com/monochra/storefront/internal/domains/checkout/adapters/memory"
	checkoutpostgres "github.com/monochra/storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutports "github.com/monochra/storefront/internal/domains/checkout/ports"
	ordersmemory "github.com/monochra/storefront/internal/domains/orders/adapters/memory"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
	"github.com/monochra/storefront/internal/platform/migrations"
	platformobservability "github.com/monochra/storefront/internal/platform/observability"
	platformpostgres "github.com/monochra/storefront/internal/platform/postgres"
	checkoutactivities "github.com/monochra/storefront/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/monochra/storefront/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	committer, carts, cleanup := buildCollaborators(ctx, logger)
	defer cleanup()
	activities := checkoutactivities.NewActivities(committer, carts)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.PlaceOrderTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.PlaceOrderWorkflow, workflow.RegisterOptions{Name: checkoutworkflows.PlaceOrderWorkflowName})
	w.RegisterActivityWithOptions(activities.CommitOrder, activity.RegisterOptions{Name: checkoutactivities.CommitOrderActivityName})
	w.RegisterActivityWithOptions(activities.ClearCart, activity.RegisterOptions{Name: checkoutactivities.ClearCartActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.PlaceOrderTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildCollaborators wires the committer and cart service the activities use.
// Memory mode only makes sense for local smoke runs; a worker processing real
// checkouts needs the shared database.
func buildCollaborators(ctx context.Context, logger *slog.Logger) (checkoutports.Committer, cartsports.Service, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		logger.Warn("worker running against in-memory stores; checkouts will not share state with the API")
		products := catalogmemory.NewRepository()
		ledger := stockmemory.NewStore(products)
		orders := ordersmemory.NewRepository(products, ledger)
		carts := cartsapp.NewService(cartsmemory.NewRepository(), catalogapp.NewService(products))
		return checkoutmemory.NewCommitter(products, orders, ledger), carts, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("worker failed to run migrations", slog.String("error", err.Error()))
		cleanup()
		os.Exit(1)
	}
	carts := cartsapp.NewService(cartspostgres.NewRepository(db), catalogapp.NewService(catalogpostgres.NewRepository(db)))
	return checkoutpostgres.NewCommitter(db), carts, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
