// Package http exposes the orders bounded context over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monochra/storefront/internal/domains/orders/adapters/http/mapper"
	"github.com/monochra/storefront/internal/domains/orders/domain"
	"github.com/monochra/storefront/internal/domains/orders/ports"
	apierrors "github.com/monochra/storefront/internal/shared/errors"
)

const (
	headerSessionKey = "X-Session-Key"
	headerUserID     = "X-User-ID"
)

// Handler wires HTTP transport to the orders service.
type Handler struct {
	service ports.Service
}

// NewHandler creates an orders HTTP handler.
func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the buyer-facing order routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/orders", h.ListOrders)
	group.GET("/orders/:id", h.GetOrder)
	group.GET("/orders/number/:number", h.GetOrderByNumber)
}

// RegisterAdmin mounts the back-office order routes on the given group.
func (h *Handler) RegisterAdmin(group *gin.RouterGroup) {
	group.GET("/orders", h.ListAllOrders)
	group.PATCH("/orders/:id/status", h.UpdateStatus)
}

// ListOrders returns the caller's orders, newest first.
func (h *Handler) ListOrders(c *gin.Context) {
	owner, ok := resolveOwner(c)
	if !ok {
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context(), owner)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(orders))
}

// GetOrder loads a single order with its items.
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// GetOrderByNumber loads an order by its human-readable number.
func (h *Handler) GetOrderByNumber(c *gin.Context) {
	order, err := h.service.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

// ListAllOrders pages through every order for the back-office.
func (h *Handler) ListAllOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	orders, err := h.service.ListAllOrders(c.Request.Context(), limit, offset)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderList(orders))
}

// UpdateStatus applies one step of the order status machine.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload mapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	next, err := domain.ParseStatus(payload.Status)
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("unknown status "+payload.Status))
		return
	}
	order, err := h.service.UpdateStatus(c.Request.Context(), id, next)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			current := "unknown"
			if existing, getErr := h.service.GetOrder(c.Request.Context(), id); getErr == nil {
				current = string(existing.Status)
			}
			apierrors.RespondError(c, apierrors.NewInvalidTransitionProblem(current, string(next)))
			return
		}
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrder(order))
}

func resolveOwner(c *gin.Context) (domain.Owner, bool) {
	if userID := c.GetHeader(headerUserID); userID != "" {
		return domain.Owner{Kind: domain.OwnerUser, Key: userID}, true
	}
	if sessionKey := c.GetHeader(headerSessionKey); sessionKey != "" {
		return domain.Owner{Kind: domain.OwnerSession, Key: sessionKey}, true
	}
	apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("request carries neither X-User-ID nor X-Session-Key"))
	return domain.Owner{}, false
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("invalid "+name))
		return 0, false
	}
	return id, true
}

func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, ports.ErrNotFound):
		apierrors.RespondError(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, domain.ErrInvalidOwner), errors.Is(err, domain.ErrInvalidStatus):
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
