package service

import (
	"math"
	"sort"
	"time"

	"phonestore/internal/model"
)

// Ranker orders product listings by a weighted blend of price fit and
// release recency.
type Ranker struct {
	weightPrice   float64
	weightRecency float64
}

// NewRanker creates a ranker with the given weights.
func NewRanker(weightPrice, weightRecency float64) *Ranker {
	return &Ranker{weightPrice: weightPrice, weightRecency: weightRecency}
}

// Rank returns a new slice sorted by descending score. When no price bounds
// are given (both zero) every product gets a neutral price score and the
// ordering is driven by recency.
func (r *Ranker) Rank(products []model.Product, priceMin, priceMax int64) []model.Product {
	ranked := make([]model.Product, len(products))
	copy(ranked, products)

	now := time.Now()
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.score(&ranked[i], priceMin, priceMax, now) > r.score(&ranked[j], priceMin, priceMax, now)
	})
	return ranked
}

func (r *Ranker) score(p *model.Product, priceMin, priceMax int64, now time.Time) float64 {
	return r.weightPrice*priceScore(p.Price, priceMin, priceMax) + r.weightRecency*recencyScore(p.ReleaseDate, now)
}

// priceScore rewards prices close to the midpoint of the requested range.
func priceScore(price, priceMin, priceMax int64) float64 {
	if priceMin == 0 && priceMax == 0 {
		return 0.5
	}
	if priceMax <= priceMin {
		return 0.5
	}
	mid := float64(priceMin+priceMax) / 2
	half := float64(priceMax-priceMin) / 2
	dist := math.Abs(float64(price) - mid)
	score := 1 - dist/half
	if score < 0 {
		return 0
	}
	return score
}

// recencyScore decays with age; products without a release date sit in the
// middle.
func recencyScore(releaseDate *time.Time, now time.Time) float64 {
	if releaseDate == nil {
		return 0.5
	}
	ageDays := now.Sub(*releaseDate).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	// Half-life of roughly one year.
	return math.Exp(-ageDays / 365 * math.Ln2)
}
