package service

import (
	"context"

	"github.com/rs/zerolog"

	"propchat/internal/metrics"
	"propchat/internal/model"
)

// Extractor converts free text into a filter set
type Extractor interface {
	Extract(ctx context.Context, text string) (*model.FilterSet, error)
}

// Strategy names recorded per extraction
const (
	StrategyPattern = "pattern"
	StrategyOracle  = "oracle"
)

// FallbackExtractor tries the oracle first and falls back to the pattern
// rules on any oracle failure. It never returns an error.
type FallbackExtractor struct {
	oracle   *OracleExtractor
	fallback *PatternExtractor
	logger   zerolog.Logger
}

// NewFallbackExtractor composes the two strategies. A nil or disabled
// oracle means every call goes straight to the pattern rules.
func NewFallbackExtractor(oracle *OracleExtractor, fallback *PatternExtractor, logger zerolog.Logger) *FallbackExtractor {
	if fallback == nil {
		fallback = NewPatternExtractor()
	}
	return &FallbackExtractor{
		oracle:   oracle,
		fallback: fallback,
		logger:   logger.With().Str("component", "extractor").Logger(),
	}
}

// Extract implements Extractor
func (e *FallbackExtractor) Extract(ctx context.Context, text string) (*model.FilterSet, error) {
	if e.oracle.Enabled() {
		filters, err := e.oracle.Extract(ctx, text)
		if err == nil {
			metrics.RecordExtraction(StrategyOracle, "ok")
			return filters, nil
		}
		e.logger.Warn().Err(err).Msg("Oracle extraction failed, falling back to pattern rules")
		metrics.RecordExtraction(StrategyOracle, "error")
		metrics.RecordExtraction(StrategyPattern, "fallback")
	} else {
		metrics.RecordExtraction(StrategyPattern, "ok")
	}

	filters, _ := e.fallback.Extract(ctx, text)
	return filters, nil
}

// Ensure strategies implement Extractor
var (
	_ Extractor = (*PatternExtractor)(nil)
	_ Extractor = (*OracleExtractor)(nil)
	_ Extractor = (*FallbackExtractor)(nil)
)
