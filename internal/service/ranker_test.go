package service

import (
	"testing"
	"time"

	"phonestore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPrefersMidRangePrice(t *testing.T) {
	r := NewRanker(1.0, 0.0)
	products := []model.Product{
		{Name: "low", Price: 5_100_000},
		{Name: "mid", Price: 10_000_000},
		{Name: "high", Price: 14_900_000},
	}

	ranked := r.Rank(products, 5_000_000, 15_000_000)
	require.Len(t, ranked, 3)
	assert.Equal(t, "mid", ranked[0].Name)
}

func TestRankPrefersRecentReleases(t *testing.T) {
	r := NewRanker(0.0, 1.0)
	old := time.Now().AddDate(-3, 0, 0)
	fresh := time.Now().AddDate(0, -1, 0)
	products := []model.Product{
		{Name: "old", ReleaseDate: &old},
		{Name: "fresh", ReleaseDate: &fresh},
	}

	ranked := r.Rank(products, 0, 0)
	assert.Equal(t, "fresh", ranked[0].Name)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	r := NewRanker(0.6, 0.4)
	products := []model.Product{
		{Name: "a", Price: 14_000_000},
		{Name: "b", Price: 10_000_000},
	}

	_ = r.Rank(products, 5_000_000, 15_000_000)
	assert.Equal(t, "a", products[0].Name)
}
