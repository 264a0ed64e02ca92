// Package http exposes the product catalog over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/monochra/storefront/internal/domains/catalog/adapters/http/mapper"
	"github.com/monochra/storefront/internal/domains/catalog/application"
	"github.com/monochra/storefront/internal/domains/catalog/ports"
	apierrors "github.com/monochra/storefront/internal/shared/errors"
)

// Handler wires HTTP transport to the catalog service.
type Handler struct {
	service *application.Service
}

// NewHandler creates a catalog HTTP handler.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the buyer-facing catalog routes on the given group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/products", h.ListProducts)
	group.GET("/products/:id", h.GetProduct)
}

// RegisterAdmin mounts the back-office catalog routes on the given group.
func (h *Handler) RegisterAdmin(group *gin.RouterGroup) {
	group.PUT("/products", h.SaveProduct)
}

// ListProducts returns the whole catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProductList(products))
}

// GetProduct loads a single product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail("invalid id"))
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProduct(product))
}

// SaveProduct upserts a product from the back-office.
func (h *Handler) SaveProduct(c *gin.Context) {
	var payload mapper.SaveProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := payload.ToDomain()
	if err != nil {
		apierrors.RespondError(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	saved, err := h.service.SaveProduct(c.Request.Context(), product)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromProduct(saved))
}

func respondCatalogServiceError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, ports.ErrNotFound):
		apierrors.RespondError(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	default:
		apierrors.RespondError(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
