package service

import (
	"strings"

	"github.com/rs/zerolog"

	"propchat/internal/model"
	"propchat/internal/utils"
)

// SearchEngine filters the dataset by a FilterSet
type SearchEngine struct {
	strictNumeric bool
	ranker        *Ranker
	logger        zerolog.Logger
}

// NewSearchEngine creates a search engine. With strictNumeric, a zero price
// or area never satisfies a bound on that field.
func NewSearchEngine(strictNumeric bool, ranker *Ranker, logger zerolog.Logger) *SearchEngine {
	if ranker == nil {
		ranker = NewRanker()
	}
	return &SearchEngine{
		strictNumeric: strictNumeric,
		ranker:        ranker,
		logger:        logger.With().Str("component", "search").Logger(),
	}
}

type filterStage struct {
	name  string
	keep  func(p *model.Property) bool
	apply bool
}

// Search returns the properties matching every set filter, sorted by price.
// The dataset is not modified. Any internal fault yields an empty result.
func (e *SearchEngine) Search(filters *model.FilterSet, dataset []model.Property) (results []model.Property) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("Search aborted")
			results = []model.Property{}
		}
	}()

	if filters == nil {
		filters = &model.FilterSet{}
	}

	results = make([]model.Property, len(dataset))
	copy(results, dataset)

	for _, stage := range e.stages(filters) {
		if !stage.apply {
			continue
		}
		kept := results[:0]
		for i := range results {
			if stage.keep(&results[i]) {
				kept = append(kept, results[i])
			}
		}
		results = kept
		e.logger.Debug().Str("filter", stage.name).Int("remaining", len(results)).Msg("Filter applied")
	}

	e.ranker.Rank(results)
	return results
}

// stages lists the filters in their fixed application order
func (e *SearchEngine) stages(f *model.FilterSet) []filterStage {
	return []filterStage{
		{name: "city", apply: f.City != nil, keep: func(p *model.Property) bool {
			return containsFold(p.FullAddress, *f.City)
		}},
		{name: "bhk", apply: f.BHK != nil, keep: func(p *model.Property) bool {
			return strings.EqualFold(p.BHK, *f.BHK)
		}},
		{name: "maxBudget", apply: f.MaxBudget != nil, keep: func(p *model.Property) bool {
			return e.usable(p.Price, p.PriceKnown) && p.Price <= *f.MaxBudget
		}},
		{name: "minBudget", apply: f.MinBudget != nil, keep: func(p *model.Property) bool {
			return e.usable(p.Price, p.PriceKnown) && p.Price >= *f.MinBudget
		}},
		{name: "minArea", apply: f.MinArea != nil, keep: func(p *model.Property) bool {
			return e.usable(p.CarpetArea, p.CarpetAreaKnown) && p.CarpetArea >= *f.MinArea
		}},
		{name: "maxArea", apply: f.MaxArea != nil, keep: func(p *model.Property) bool {
			return e.usable(p.CarpetArea, p.CarpetAreaKnown) && p.CarpetArea <= *f.MaxArea
		}},
		{name: "status", apply: f.Status != nil, keep: func(p *model.Property) bool {
			return p.Status == *f.Status
		}},
		{name: "locality", apply: f.Locality != nil, keep: func(p *model.Property) bool {
			return containsFold(p.FullAddress, *f.Locality) || containsFold(p.Landmark, *f.Locality)
		}},
		{name: "nearMetro", apply: f.NearMetro != nil && *f.NearMetro, keep: func(p *model.Property) bool {
			return containsFold(p.FullAddress, "metro") || containsFold(p.Landmark, "metro")
		}},
		{name: "amenities", apply: len(f.Amenities) > 0, keep: func(p *model.Property) bool {
			return utils.AmenityMatches(f.Amenities, p.AmenityTags)
		}},
		{name: "projectName", apply: f.ProjectName != nil, keep: func(p *model.Property) bool {
			return containsFold(p.ProjectName, *f.ProjectName)
		}},
	}
}

// usable reports whether a numeric field may be compared against a bound
func (e *SearchEngine) usable(v float64, known bool) bool {
	if !known {
		return false
	}
	return !e.strictNumeric || v > 0
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
