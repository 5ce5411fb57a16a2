package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"phonestore/internal/config"
	"phonestore/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProductCatalog struct {
	gotFilter *model.ProductFilter
	gotLimit  int
	gotOffset int
	product   *model.Product
}

func (f *fakeProductCatalog) ListProducts(ctx context.Context, filter *model.ProductFilter, limit, offset int) ([]model.Product, int, error) {
	f.gotFilter = filter
	f.gotLimit = limit
	f.gotOffset = offset
	return []model.Product{{ProductID: 1, Name: "iPhone 14", Brand: "Apple"}}, 1, nil
}

func (f *fakeProductCatalog) GetProductByID(ctx context.Context, productID int64) (*model.Product, error) {
	return f.product, nil
}

func setupProductRouter(catalog ProductCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewProductHandler(catalog, &config.CatalogConfig{DefaultLimit: 10, MaxLimit: 100}, zap.NewNop())
	router.GET("/api/v1/products", h.List)
	router.GET("/api/v1/products/:id", h.Get)
	return router
}

func TestListProductsAppliesFiltersAndPaging(t *testing.T) {
	catalog := &fakeProductCatalog{}
	router := setupProductRouter(catalog)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?brand=Samsung&price_min=5000000&page=3&limit=5", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, catalog.gotFilter)
	assert.Equal(t, "Samsung", catalog.gotFilter.Brand)
	assert.Equal(t, int64(5000000), catalog.gotFilter.PriceMin)
	assert.Equal(t, 5, catalog.gotLimit)
	assert.Equal(t, 10, catalog.gotOffset)

	var resp model.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 3, resp.Page)
}

func TestListProductsCapsLimit(t *testing.T) {
	catalog := &fakeProductCatalog{}
	router := setupProductRouter(catalog)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=9999", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, catalog.gotLimit)
}

func TestGetProductNotFound(t *testing.T) {
	router := setupProductRouter(&fakeProductCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductRejectsBadID(t *testing.T) {
	router := setupProductRouter(&fakeProductCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
