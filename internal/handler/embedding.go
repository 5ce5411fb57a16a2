package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"phonestore/internal/model"
	"phonestore/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmbeddingStore is the catalog access the rebuild endpoint needs.
type EmbeddingStore interface {
	ProductsForEmbedding(ctx context.Context, ids []int64) ([]model.Product, error)
	BatchUpdateEmbeddings(ctx context.Context, ids []int64, embeddings [][]float32) (int, []string)
}

// EmbeddingHandler recomputes product description embeddings.
type EmbeddingHandler struct {
	store    EmbeddingStore
	embedder service.Embedder
	log      *zap.Logger
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(store EmbeddingStore, embedder service.Embedder, log *zap.Logger) *EmbeddingHandler {
	return &EmbeddingHandler{store: store, embedder: embedder, log: log}
}

// Rebuild handles POST /api/v1/embeddings/rebuild
func (h *EmbeddingHandler) Rebuild(c *gin.Context) {
	if h.embedder == nil || !h.embedder.IsEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Embedding service is not configured"})
		return
	}

	var req model.EmbeddingRebuildRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	products, err := h.store.ProductsForEmbedding(c.Request.Context(), req.ProductIDs)
	if err != nil {
		h.log.Error("failed to load products for embedding", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusOK, model.EmbeddingRebuildResponse{})
		return
	}

	texts := make([]string, 0, len(products))
	ids := make([]int64, 0, len(products))
	for i := range products {
		texts = append(texts, embeddingText(&products[i]))
		ids = append(ids, products[i].ProductID)
	}

	embeddings, err := h.embedder.EmbedTexts(c.Request.Context(), texts)
	if err != nil {
		h.log.Error("failed to embed product texts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate embeddings"})
		return
	}

	success, errs := h.store.BatchUpdateEmbeddings(c.Request.Context(), ids, embeddings)
	c.JSON(http.StatusOK, model.EmbeddingRebuildResponse{
		Success: success,
		Failed:  len(ids) - success,
		Errors:  errs,
	})
}

// embeddingText builds the text fed to the embedding model for one product.
func embeddingText(p *model.Product) string {
	parts := []string{p.Name, p.Brand, fmt.Sprintf("%d VND", p.Price)}
	if p.Description != nil && *p.Description != "" {
		parts = append(parts, *p.Description)
	}
	if p.Features != nil && *p.Features != "" {
		parts = append(parts, *p.Features)
	}
	if p.Colors != nil && *p.Colors != "" {
		parts = append(parts, *p.Colors)
	}
	return strings.Join(parts, ". ")
}
