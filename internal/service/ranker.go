package service

import (
	"sort"

	"propchat/internal/model"
)

// Ranker orders search results. The only ranking is ascending price.
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank sorts properties in place by price, cheapest first. Unknown prices
// count as zero and sort first; equal prices keep dataset order.
func (r *Ranker) Rank(properties []model.Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		return sortPrice(properties[i]) < sortPrice(properties[j])
	})
}

func sortPrice(p model.Property) float64 {
	if !p.PriceKnown {
		return 0
	}
	return p.Price
}
