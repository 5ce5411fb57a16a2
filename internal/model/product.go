package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Product represents a phone in the catalog. Records are owned by the catalog
// store and treated as immutable by the dialogue system.
type Product struct {
	ProductID      int64           `json:"product_id" db:"product_id"`
	Name           string          `json:"name" db:"name"`
	Brand          string          `json:"brand" db:"brand"`
	Description    *string         `json:"description,omitempty" db:"description"`
	Price          int64           `json:"price" db:"price"`
	Colors         *string         `json:"colors,omitempty" db:"colors"`
	Storage        *string         `json:"storage,omitempty" db:"storage"`
	ReleaseDate    *time.Time      `json:"release_date,omitempty" db:"release_date"`
	WarrantyPeriod *int            `json:"warranty_period,omitempty" db:"warranty_period"`
	ImageURL       *string         `json:"image_url,omitempty" db:"image_url"`
	PromotionNames *string         `json:"promotion_names,omitempty" db:"promotion_names"`
	Features       *string         `json:"features,omitempty" db:"features"`
	Embedding      pgvector.Vector `json:"-" db:"embedding"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductCard is the trimmed product shape embedded in chat replies.
type ProductCard struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ProductFilter holds the optional filters for catalog listing queries.
type ProductFilter struct {
	Search   string
	Brand    string
	PriceMin int64
	PriceMax int64
}

// ProductListResponse is the paginated catalog listing response.
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
