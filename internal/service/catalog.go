package service

import (
	"context"

	"phonestore/internal/model"
)

// Catalog is the read-side capability the dialogue controller needs from the
// product store. Implemented by repository.PostgresRepository.
type Catalog interface {
	// GetProductByName returns the first product whose name contains the
	// given text; (nil, nil) when nothing matches.
	GetProductByName(ctx context.Context, name string) (*model.Product, error)

	// FindByPriceRange returns products priced within [minPrice, maxPrice].
	FindByPriceRange(ctx context.Context, minPrice, maxPrice int64) ([]model.Product, error)

	// FindByBrand returns a brand's products, optionally narrowed by feature
	// and color.
	FindByBrand(ctx context.Context, brand, feature, color string) ([]model.Product, error)

	// SuggestSimilar returns up to three same-brand products excluding any
	// whose name contains excludeName.
	SuggestSimilar(ctx context.Context, brand, excludeName string) ([]model.Product, error)
}

// SimilarityCatalog is the optional vector-search capability used to upgrade
// similar-product suggestions when description embeddings are populated.
type SimilarityCatalog interface {
	SuggestByEmbedding(ctx context.Context, embedding []float32, excludeID int64, limit int) ([]model.Product, error)
}
