// Package http exposes the cart bounded context over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/monochra/storefront/internal/domains/carts/adapters/http/mapper"
	"github.com/monochra/storefront/internal/domains/carts/application"
	"github.com/monochra/storefront/internal/domains/carts/domain"
	"github.com/monochra/storefront/internal/domains/carts/ports"
	apierrors "github.com/monochra/storefront/internal/shared/errors"
)

// Header names identifying the cart owner. A signed-in user wins over a
// guest session when both are present.
const (
	HeaderSessionKey = "X-Session-Key"
	HeaderUserID     = "X-User-ID"
)

// Handler wires HTTP transport to the carts service.
type Handler struct {
	service  ports.Service
	sessions ports.SessionStore
}

// NewHandler creates a cart HTTP handler.
func NewHandler(service ports.Service, sessions ports.SessionStore) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Register mounts the cart routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/cart", h.GetCart)
	group.GET("/cart/count", h.Count)
	group.POST("/cart/items", h.AddItem)
	group.PATCH("/cart/items/:productId", h.UpdateQuantity)
	group.DELETE("/cart/items/:productId", h.RemoveItem)
	group.DELETE("/cart", h.Clear)
	group.POST("/cart/merge", h.Merge)
}

// AddItem adds or increments a cart line. Guests without a session key get
// one minted and returned in the response header.
func (h *Handler) AddItem(c *gin.Context) {
	owner, ok := h.resolveOwner(c, true)
	if !ok {
		return
	}
	var payload mapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	line, err := h.service.AddItem(c.Request.Context(), owner, payload.ProductID, payload.Quantity)
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.Line{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPriceSnapshot.StringFixed(2),
		LineTotal: line.Subtotal().StringFixed(2),
	})
}

// GetCart returns the owner's cart snapshot.
func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := h.resolveOwner(c, false)
	if !ok {
		return
	}
	snapshot, err := h.service.Snapshot(c.Request.Context(), owner)
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSnapshot(snapshot))
}

// Count returns the number of units in the cart for badge rendering.
func (h *Handler) Count(c *gin.Context) {
	owner, ok := h.resolveOwner(c, false)
	if !ok {
		return
	}
	count, err := h.service.Count(c.Request.Context(), owner)
	if err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *Handler) UpdateQuantity(c *gin.Context) {
	owner, ok := h.resolveOwner(c, false)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload mapper.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	if err := h.service.UpdateQuantity(c.Request.Context(), owner, productID, payload.Quantity); err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem deletes a line; removing an absent line succeeds.
func (h *Handler) RemoveItem(c *gin.Context) {
	owner, ok := h.resolveOwner(c, false)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := h.service.RemoveItem(c.Request.Context(), owner, productID); err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear empties the cart; clearing an empty cart succeeds.
func (h *Handler) Clear(c *gin.Context) {
	owner, ok := h.resolveOwner(c, false)
	if !ok {
		return
	}
	if err := h.service.Clear(c.Request.Context(), owner); err != nil {
		respondCartServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Merge folds a guest session cart into the signed-in user's cart.
func (h *Handler) Merge(c *gin.Context) {
	userID := c.GetHeader(HeaderUserID)
	if userID == "" {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("merge requires the X-User-ID header"))
		return
	}
	var payload mapper.MergeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	sessionOwner := domain.SessionOwner(payload.SessionKey)
	userOwner := domain.UserOwner(userID)
	if err := h.service.MergeOnLogin(c.Request.Context(), sessionOwner, userOwner); err != nil {
		respondCartServiceError(c, err)
		return
	}
	if h.sessions != nil {
		_ = h.sessions.Delete(c.Request.Context(), payload.SessionKey)
	}
	c.Status(http.StatusNoContent)
}

// resolveOwner identifies the cart owner from request headers. When mint is
// true a missing guest session key is generated and echoed back via
// X-Session-Key so the client can persist it.
func (h *Handler) resolveOwner(c *gin.Context, mint bool) (domain.Owner, bool) {
	if userID := c.GetHeader(HeaderUserID); userID != "" {
		return domain.UserOwner(userID), true
	}
	sessionKey := c.GetHeader(HeaderSessionKey)
	if sessionKey == "" {
		if !mint {
			apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("request carries neither X-User-ID nor X-Session-Key"))
			return domain.Owner{}, false
		}
		sessionKey = uuid.NewString()
		c.Header(HeaderSessionKey, sessionKey)
	}
	if h.sessions != nil {
		_ = h.sessions.Touch(c.Request.Context(), sessionKey)
	}
	return domain.SessionOwner(sessionKey), true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("invalid "+name))
		return 0, false
	}
	return id, true
}

func respondCartServiceError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, application.ErrProductNotFound):
		apierrors.RespondError(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
