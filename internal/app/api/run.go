package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cartshttp "github.com/monochra/storefront/internal/domains/carts/adapters/http"
	cartsmemory "github.com/monochra/storefront/internal/domains/carts/adapters/memory"
	cartspostgres "github.com/monochra/storefront/internal/domains/carts/adapters/persistence/postgres"
	cartsapp "github.com/monochra/storefront/internal/domains/carts/application"
	cartsports "github.com/monochra/storefront/internal/domains/carts/ports"

	cataloghttp "github.com/monochra/storefront/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/monochra/storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/monochra/storefront/internal/domains/catalog/application"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"

	checkouthttp "github.com/monochra/storefront/internal/domains/checkout/adapters/http"
	checkoutmemory "github.com/monochra/storefront/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/monochra/storefront/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/monochra/storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/monochra/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/monochra/storefront/internal/domains/checkout/application"
	checkoutports "github.com/monochra/storefront/internal/domains/checkout/ports"

	ordershttp "github.com/monochra/storefront/internal/domains/orders/adapters/http"
	ordersmemory "github.com/monochra/storefront/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/monochra/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/monochra/storefront/internal/domains/orders/application"
	ordersports "github.com/monochra/storefront/internal/domains/orders/ports"

	stockhttp "github.com/monochra/storefront/internal/domains/stock/adapters/http"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"
	stockpostgres "github.com/monochra/storefront/internal/domains/stock/adapters/persistence/postgres"
	stockapp "github.com/monochra/storefront/internal/domains/stock/application"
	stockports "github.com/monochra/storefront/internal/domains/stock/ports"

	"github.com/monochra/storefront/internal/platform/migrations"
	platformobservability "github.com/monochra/storefront/internal/platform/observability"
	platformpostgres "github.com/monochra/storefront/internal/platform/postgres"
)

// Run boots the storefront HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "storefront-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	st := buildStores(ctx, cfg, logger)
	defer st.cleanup()

	catalogService := catalogapp.NewService(st.catalogRepo)
	cartsService := cartsapp.NewService(st.cartsRepo, catalogService)
	stockService := stockapp.NewService(st.stockStore, st.catalogRepo)
	ordersService := ordersapp.NewService(st.ordersRepo)

	var orchestrator checkoutports.WorkflowOrchestrator = checkoutworkflows.NewInlineCheckoutWorkflows(st.committer, cartsService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, committing checkouts inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = checkoutworkflows.NewTemporalCheckoutWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coreCheckout := checkoutapp.NewService(cartsService, catalogService, orchestrator, cfg.Pricing)
	checkoutService := checkoutobs.New(
		coreCheckout,
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	router := newRouter(serviceName, handlers{
		catalog:  cataloghttp.NewHandler(catalogService),
		carts:    cartshttp.NewHandler(cartsService, st.sessions),
		checkout: checkouthttp.NewHandler(checkoutService),
		orders:   ordershttp.NewHandler(ordersService),
		stock:    stockhttp.NewHandler(stockService),
	})

	addr := ":" + cfg.Port
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type handlers struct {
	catalog  *cataloghttp.Handler
	carts    *cartshttp.Handler
	checkout *checkouthttp.Handler
	orders   *ordershttp.Handler
	stock    *stockhttp.Handler
}

func newRouter(serviceName string, h handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	v1 := router.Group("/v1")
	h.catalog.Register(v1)
	h.carts.Register(v1)
	h.checkout.Register(v1)
	h.orders.Register(v1)

	admin := v1.Group("/admin")
	h.catalog.RegisterAdmin(admin)
	h.orders.RegisterAdmin(admin)
	h.stock.Register(admin)
	return router
}

// stores bundles the persistence ports for one storage mode. Memory mode
// shares a single catalog repository and ledger across contexts so stock
// changes stay atomic and visible everywhere.
type stores struct {
	catalogRepo catalogports.Repository
	cartsRepo   cartsports.Repository
	sessions    cartsports.SessionStore
	stockStore  stockports.Store
	ordersRepo  ordersports.Repository
	committer   checkoutports.Committer
	cleanup     func()
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) *stores {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return memoryStores(cfg)
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to in-memory stores", slog.String("error", err.Error()))
		cleanup()
		return memoryStores(cfg)
	}
	logger.Info("stores configured with postgres")
	return &stores{
		catalogRepo: catalogpostgres.NewRepository(db),
		cartsRepo:   cartspostgres.NewRepository(db),
		sessions:    cartspostgres.NewSessionStore(db, cfg.SessionTTL),
		stockStore:  stockpostgres.NewStore(db),
		ordersRepo:  orderspostgres.NewRepository(db),
		committer:   checkoutpostgres.NewCommitter(db),
		cleanup:     cleanup,
	}
}

func memoryStores(cfg Config) *stores {
	products := catalogmemory.NewRepository()
	ledger := stockmemory.NewStore(products)
	orders := ordersmemory.NewRepository(products, ledger)
	return &stores{
		catalogRepo: products,
		cartsRepo:   cartsmemory.NewRepository(),
		sessions:    cartsmemory.NewSessionStore(cfg.SessionTTL),
		stockStore:  ledger,
		ordersRepo:  orders,
		committer:   checkoutmemory.NewCommitter(products, orders, ledger),
		cleanup:     func() {},
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
