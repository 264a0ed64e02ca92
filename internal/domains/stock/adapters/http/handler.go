// Package http exposes back-office stock operations over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogports "github.com/monochra/storefront/internal/domains/catalog/ports"
	"github.com/monochra/storefront/internal/domains/stock/adapters/http/mapper"
	"github.com/monochra/storefront/internal/domains/stock/application"
	"github.com/monochra/storefront/internal/domains/stock/ports"
	apierrors "github.com/monochra/storefront/internal/shared/errors"
)

// Handler wires HTTP transport to the stock service.
type Handler struct {
	service ports.Service
}

// NewHandler creates a stock HTTP handler.
func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the stock routes on the given (admin) group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/products/:id/restock", h.Restock)
	group.POST("/products/:id/adjust", h.Adjust)
	group.GET("/products/:id/movements", h.History)
	group.GET("/products/:id/stock-balance", h.ReplayBalance)
	group.GET("/stock/low", h.LowStock)
}

// Restock records an inbound delivery.
func (h *Handler) Restock(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload mapper.RestockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	movement, err := h.service.Restock(c.Request.Context(), productID, payload.Quantity, payload.Note)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromMovement(movement))
}

// Adjust records a manual correction in either direction.
func (h *Handler) Adjust(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload mapper.AdjustRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	movement, err := h.service.Adjust(c.Request.Context(), productID, payload.Delta, payload.Note)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromMovement(movement))
}

// History returns a product's full movement ledger, oldest first.
func (h *Handler) History(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	movements, err := h.service.History(c.Request.Context(), productID)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromMovementList(movements))
}

// ReplayBalance recomputes a product's net quantity from the ledger, used to
// audit drift against the catalog's stored quantity.
func (h *Handler) ReplayBalance(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	balance, err := h.service.ReplayBalance(c.Request.Context(), productID)
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "balance": balance})
}

// LowStock lists products at or under the low-stock threshold.
func (h *Handler) LowStock(c *gin.Context) {
	products, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		respondStockServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromLowStockList(products))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("invalid "+name))
		return 0, false
	}
	return id, true
}

func respondStockServiceError(c *gin.Context, err error) {
	var insufficient *catalogports.InsufficientStockError
	switch {
	case err == nil:
		return
	case errors.As(err, &insufficient):
		apierrors.RespondError(c, apierrors.NewInsufficientStockProblem(insufficient.ProductID, insufficient.Requested, insufficient.Available))
	case errors.Is(err, catalogports.ErrNotFound):
		apierrors.RespondError(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
