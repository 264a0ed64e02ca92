//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "web-storefront"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product with id 101 exists"
	StateProductMissing  = "no product with id 404"
	StateCartReady       = "cart with one line ready for checkout"
	StateStockDrained    = "product with id 101 is out of stock"
)

const (
	ExistingProductID int64 = 101
	MissingProductID  int64 = 404

	SessionKey = "4f9a2c66-pact-session"
	UserID     = "pact-user-7"
)

const (
	exampleProductName  = "Pact Ceramic Mug"
	exampleProductPrice = "35.00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable test data for catalog interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":            ExistingProductID,
		"sku":           "SKU-PACT-101",
		"name":          exampleProductName,
		"price":         exampleProductPrice,
		"stockQuantity": 5,
		"status":        "active",
	}
}

// ExampleCartLinePayload provides stable test data for cart interactions.
func ExampleCartLinePayload() map[string]any {
	return map[string]any{
		"productId": ExistingProductID,
		"quantity":  2,
		"unitPrice": exampleProductPrice,
		"lineTotal": "70.00",
	}
}

// ExampleCheckoutPayload provides a stable checkout request body.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"shippingAddress": "1 Pact Way, Testville",
		"billingAddress":  "1 Pact Way, Testville",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
