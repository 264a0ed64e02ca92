//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/monochra/storefront/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type cartLinePayload struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

type orderPayload struct {
	ID       int64  `json:"id"`
	Number   string `json:"number"`
	Status   string `json:"status"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestWebStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	moneyMatcher := func(example string) matchers.Matcher {
		return matchers.Regex(example, `\d+\.\d{2}`)
	}
	lineBodyMatcher := matchers.Map{
		"productId": matchers.Like(pacttest.ExistingProductID),
		"quantity":  matchers.Like(2),
		"unitPrice": moneyMatcher("35.00"),
		"lineTotal": moneyMatcher("70.00"),
	}
	orderBodyMatcher := matchers.Map{
		"id":       matchers.Like(1),
		"number":   matchers.Regex("ORD-20260101-AB12CD", `ORD-\d{8}-[0-9A-F]{6}`),
		"status":   matchers.S("pending"),
		"subtotal": moneyMatcher("70.00"),
		"shipping": moneyMatcher("10.00"),
		"tax":      moneyMatcher("5.60"),
		"total":    moneyMatcher("85.60"),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to add a product to the cart").
		WithRequest("POST", "/v1/cart/items", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("X-Session-Key", matchers.S(pacttest.SessionKey))
			b.JSONBody(matchers.Map{
				"productId": matchers.Like(pacttest.ExistingProductID),
				"quantity":  matchers.Like(2),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(lineBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateCartReady).
		UponReceiving("a request to check out the cart").
		WithRequest("POST", "/v1/checkout", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("X-Session-Key", matchers.S(pacttest.SessionKey))
			b.JSONBody(matchers.Map{
				"shippingAddress": matchers.Like("1 Pact Way, Testville"),
				"billingAddress":  matchers.Like("1 Pact Way, Testville"),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/v1/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateStockDrained).
		UponReceiving("a checkout against a drained product").
		WithRequest("POST", "/v1/checkout", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("X-User-ID", matchers.S(pacttest.UserID))
			b.JSONBody(matchers.Map{
				"shippingAddress": matchers.Like("1 Pact Way, Testville"),
			})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":      matchers.S("/problems/insufficient-stock"),
				"title":     matchers.S("Insufficient Stock"),
				"status":    matchers.Like(http.StatusConflict),
				"productId": matchers.Like(pacttest.ExistingProductID),
				"requested": matchers.Like(2),
				"available": matchers.Like(0),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		line, err := client.AddToCart(ctx, pacttest.ExistingProductID, 2)
		if err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		if line == nil || line.ProductID != pacttest.ExistingProductID {
			return fmt.Errorf("expected cart line for product %d, got %+v", pacttest.ExistingProductID, line)
		}

		order, err := client.Checkout(ctx, "1 Pact Way, Testville", "1 Pact Way, Testville")
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if order == nil || order.Number == "" {
			return fmt.Errorf("expected order number to be set, got %+v", order)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		if _, err := client.Checkout(ctx, "1 Pact Way, Testville", ""); err == nil {
			return fmt.Errorf("expected 409 for drained product")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusConflict {
			return fmt.Errorf("expected 409, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) AddToCart(ctx context.Context, productID int64, quantity int) (*cartLinePayload, error) {
	body, err := json.Marshal(map[string]any{"productId": productID, "quantity": quantity})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cart/items", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Key", pacttest.SessionKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload cartLinePayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *storefrontClient) Checkout(ctx context.Context, shippingAddress, billingAddress string) (*orderPayload, error) {
	request := map[string]any{"shippingAddress": shippingAddress}
	if billingAddress != "" {
		request["billingAddress"] = billingAddress
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if billingAddress != "" {
		req.Header.Set("X-Session-Key", pacttest.SessionKey)
	} else {
		req.Header.Set("X-User-ID", pacttest.UserID)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *storefrontClient) GetProduct(ctx context.Context, id int64) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
