// Package http exposes the checkout bounded context over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartsdomain "github.com/monochra/storefront/internal/domains/carts/domain"
	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/checkout/adapters/http/mapper"
	"github.com/monochra/storefront/internal/domains/checkout/application"
	"github.com/monochra/storefront/internal/domains/checkout/ports"
	apierrors "github.com/monochra/storefront/internal/shared/errors"
)

const (
	headerSessionKey = "X-Session-Key"
	headerUserID     = "X-User-ID"
)

// Handler wires HTTP transport to the checkout service.
type Handler struct {
	service ports.Service
}

// NewHandler creates a checkout HTTP handler.
func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the checkout routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/checkout", h.Checkout)
	group.GET("/checkout/quote", h.Quote)
}

// Checkout converts the caller's cart into a confirmed order.
func (h *Handler) Checkout(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}
	var payload mapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	order, err := h.service.Checkout(c.Request.Context(), owner, payload.ToRequest())
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromOrder(order))
}

// Quote prices the caller's cart without committing anything.
func (h *Handler) Quote(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}
	totals, err := h.service.Quote(c.Request.Context(), owner)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromTotals(totals))
}

func resolveOwner(c *gin.Context) (cartsdomain.Owner, bool) {
	if userID := c.GetHeader(headerUserID); userID != "" {
		return cartsdomain.UserOwner(userID), true
	}
	if sessionKey := c.GetHeader(headerSessionKey); sessionKey != "" {
		return cartsdomain.SessionOwner(sessionKey), true
	}
	apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("request carries neither X-User-ID nor X-Session-Key"))
	return cartsdomain.Owner{}, false
}

func respondCheckoutError(c *gin.Context, err error) {
	var insufficient *catalogports.InsufficientStockError
	switch {
	case err == nil:
		return
	case errors.As(err, &insufficient):
		apierrors.RespondError(c, apierrors.NewInsufficientStockProblem(insufficient.ProductID, insufficient.Requested, insufficient.Available))
	case errors.Is(err, application.ErrEmptyCart):
		apierrors.RespondError(c, apierrors.NewEmptyCartProblem())
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, catalogports.ErrNotFound):
		apierrors.RespondError(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrOrderNumberCollision):
		apierrors.RespondError(c, apierrors.ErrConflict.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
