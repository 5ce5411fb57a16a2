package handler

import (
	"context"
	"net/http"
	"strconv"

	"phonestore/internal/config"
	"phonestore/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductCatalog is the catalog access the REST surface needs.
type ProductCatalog interface {
	ListProducts(ctx context.Context, filter *model.ProductFilter, limit, offset int) ([]model.Product, int, error)
	GetProductByID(ctx context.Context, productID int64) (*model.Product, error)
}

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	catalog ProductCatalog
	cfg     *config.CatalogConfig
	log     *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog ProductCatalog, cfg *config.CatalogConfig, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, cfg: cfg, log: log}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	filter := &model.ProductFilter{
		Search: c.Query("search"),
		Brand:  c.Query("brand"),
	}
	if v := c.Query("price_min"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			filter.PriceMin = n
		}
	}
	if v := c.Query("price_max"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			filter.PriceMax = n
		}
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", h.cfg.DefaultLimit)
	if limit < 1 {
		limit = h.cfg.DefaultLimit
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}
	offset := (page - 1) * limit

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter, limit, offset)
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, model.ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.log.Error("failed to get product", zap.Int64("product_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	v := c.Query(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}
