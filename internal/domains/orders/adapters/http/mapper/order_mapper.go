package mapper

import (
	"time"

	"github.com/monochra/storefront/internal/domains/orders/domain"
)

// Item is the transport view of an order line.
type Item struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Order is the transport view of an order.
type Order struct {
	ID              int64  `json:"id"`
	Number          string `json:"number"`
	Status          string `json:"status"`
	Subtotal        string `json:"subtotal"`
	Shipping        string `json:"shipping"`
	Tax             string `json:"tax"`
	Total           string `json:"total"`
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress"`
	CreatedAt       string `json:"createdAt"`
	Items           []Item `json:"items"`
}

// UpdateStatusRequest captures the requested status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// FromOrder converts an order for transport.
func FromOrder(order *domain.Order) Order {
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
		Items:           make([]Item, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return out
}

// FromOrderList converts a list of orders for transport.
func FromOrderList(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromOrder(order))
	}
	return out
}
