package mapper

import (
	"time"

	checkoutdomain "github.com/monochra/storefront/internal/domains/checkout/domain"
	ordersdomain "github.com/monochra/storefront/internal/domains/orders/domain"
)

// CheckoutRequest captures the inbound checkout payload.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	BillingAddress  string `json:"billingAddress"`
}

// OrderItem is the transport view of a confirmed order line.
type OrderItem struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Order is the transport view of a confirmed order.
type Order struct {
	ID              int64       `json:"id"`
	Number          string      `json:"number"`
	Status          string      `json:"status"`
	Subtotal        string      `json:"subtotal"`
	Shipping        string      `json:"shipping"`
	Tax             string      `json:"tax"`
	Total           string      `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	BillingAddress  string      `json:"billingAddress"`
	CreatedAt       string      `json:"createdAt"`
	Items           []OrderItem `json:"items"`
}

// Quote is the transport view of a priced but uncommitted cart.
type Quote struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// ToRequest converts the payload into the domain request.
func (r CheckoutRequest) ToRequest() checkoutdomain.Request {
	return checkoutdomain.Request{
		ShippingAddress: r.ShippingAddress,
		BillingAddress:  r.BillingAddress,
	}
}

// FromTotals converts priced totals for transport.
func FromTotals(totals *checkoutdomain.Totals) Quote {
	return Quote{
		Subtotal: totals.Subtotal.StringFixed(2),
		Shipping: totals.Shipping.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
	}
}

// FromOrder converts a confirmed order for transport.
func FromOrder(order *ordersdomain.Order) Order {
	out := Order{
		ID:              order.ID,
		Number:          order.Number,
		Status:          string(order.Status),
		Subtotal:        order.Subtotal.StringFixed(2),
		Shipping:        order.Shipping.StringFixed(2),
		Tax:             order.Tax.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		CreatedAt:       order.CreatedAt.UTC().Format(time.RFC3339),
		Items:           make([]OrderItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return out
}
