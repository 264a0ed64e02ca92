//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	pacttest "github.com/monochra/storefront/test/pact"

	cartshttp "github.com/monochra/storefront/internal/domains/carts/adapters/http"
	cartsmemory "github.com/monochra/storefront/internal/domains/carts/adapters/memory"
	cartsapp "github.com/monochra/storefront/internal/domains/carts/application"
	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	cataloghttp "github.com/monochra/storefront/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/monochra/storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/monochra/storefront/internal/domains/catalog/application"
	catalogdomain "github.com/monochra/storefront/internal/domains/catalog/domain"
	checkouthttp "github.com/monochra/storefront/internal/domains/checkout/adapters/http"
	checkoutmemory "github.com/monochra/storefront/internal/domains/checkout/adapters/memory"
	checkoutworkflows "github.com/monochra/storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/monochra/storefront/internal/domains/checkout/application"
	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	ordersmemory "github.com/monochra/storefront/internal/domains/orders/adapters/memory"
	stockmemory "github.com/monochra/storefront/internal/domains/stock/adapters/memory"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t, 5)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateCartReady: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedProduct(t, 5)
				app.seedCartLine(t, cartsdomain.SessionOwner(pacttest.SessionKey))
			}
			return nil, nil
		},
		pacttest.StateStockDrained: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedDrainedCartLine(t, cartsdomain.UserOwner(pacttest.UserID))
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp hosts the storefront routes on in-memory stores. State
// handlers rebuild the stores between interactions so each contract runs
// against a known catalog and cart.
type contractProviderApp struct {
	products *catalogmemory.Repository
	service  *cartsapp.Service
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	products := catalogmemory.NewRepository()
	ledger := stockmemory.NewStore(products)
	orders := ordersmemory.NewRepository(products, ledger)
	cartsRepo := cartsmemory.NewRepository()
	sessions := cartsmemory.NewSessionStore(time.Hour)

	catalogService := catalogapp.NewService(products)
	cartsService := cartsapp.NewService(cartsRepo, catalogService)
	committer := checkoutmemory.NewCommitter(products, orders, ledger)
	orchestrator := checkoutworkflows.NewInlineCheckoutWorkflows(committer, cartsService)
	checkoutService := checkoutapp.NewService(cartsService, catalogService, orchestrator, checkoutdomain.DefaultPricingPolicy())

	router := gin.New()
	router.Use(gin.Recovery())
	v1 := router.Group("/v1")
	cataloghttp.NewHandler(catalogService).Register(v1)
	cartshttp.NewHandler(cartsService, sessions).Register(v1)
	checkouthttp.NewHandler(checkoutService).Register(v1)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		products: products,
		service:  cartsService,
		server:   server,
	}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	_ = a.service.Clear(ctx, cartsdomain.SessionOwner(pacttest.SessionKey))
	_ = a.service.Clear(ctx, cartsdomain.UserOwner(pacttest.UserID))
}

func (a *contractProviderApp) seedProduct(t testing.TB, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(
		pacttest.ExistingProductID, "SKU-PACT-101", "Pact Ceramic Mug",
		decimal.RequireFromString("35.00"), stock,
	)
	require.NoError(t, err)
	_, err = a.products.Save(context.Background(), product)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedCartLine(t testing.TB, owner cartsdomain.Owner) {
	t.Helper()
	_, err := a.service.AddItem(context.Background(), owner, pacttest.ExistingProductID, 2)
	require.NoError(t, err)
}

// seedDrainedCartLine fills the cart while stock is still available, then
// drains the product, reproducing a concurrent buyer winning the last units.
func (a *contractProviderApp) seedDrainedCartLine(t testing.TB, owner cartsdomain.Owner) {
	t.Helper()
	ctx := context.Background()
	a.seedProduct(t, 2)
	_, err := a.service.AddItem(ctx, owner, pacttest.ExistingProductID, 2)
	require.NoError(t, err)
	a.seedProduct(t, 0)
}
