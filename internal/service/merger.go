package service

import (
	"strings"

	"propchat/internal/model"
)

// MergeDecision names the rung of the ladder that produced a merge result
type MergeDecision string

const (
	DecisionExplicitNewSearch MergeDecision = "explicit_new_search"
	DecisionNoContext         MergeDecision = "no_context"
	DecisionImplicitNewSearch MergeDecision = "implicit_new_search"
	DecisionRefinement        MergeDecision = "refinement"
)

// shortQueryTokens is the token count at or below which a message is a refinement
const shortQueryTokens = 5

var newSearchPhrases = []string{
	"show me properties in",
	"find properties in",
	"search in",
	"looking for properties in",
	"i want properties in",
	"search properties in",
}

var refinementIndicators = []string{
	"i want", "what about", "how about", "show me", "any", "instead",
	"change to", "make it", "also", "but", "try", "give me", "get me",
}

var detailKeywords = []string{
	"bhk", "ready", "under construction", "under", "below", "budget",
	"cheaper", "expensive", "near", "locality", "area",
	"crore", "lakh", "cr", "lakhs",
}

// Merge combines the filters of the current turn with the previous effective
// filters. It depends only on its arguments and never mutates them.
func Merge(current, previous *model.FilterSet, text string) *model.FilterSet {
	merged, _ := MergeWithDecision(current, previous, text)
	return merged
}

// MergeWithDecision is Merge that also reports which rule decided
func MergeWithDecision(current, previous *model.FilterSet, text string) (*model.FilterSet, MergeDecision) {
	lower := strings.ToLower(text)

	if current.HasLocation() && containsAny(lower, newSearchPhrases) {
		return current.Clone(), DecisionExplicitNewSearch
	}

	if previous.IsEmpty() {
		return current.Clone(), DecisionNoContext
	}

	if current.HasLocation() && !IsRefinement(text) {
		return current.Clone(), DecisionImplicitNewSearch
	}

	merged := previous.Clone()
	merged.Overlay(current)
	return merged, DecisionRefinement
}

// IsRefinement reports whether text reads as an adjustment of the last search
func IsRefinement(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, detailKeywords) ||
		containsAny(lower, refinementIndicators) ||
		len(strings.Fields(lower)) <= shortQueryTokens
}

// ContextApplied reports whether merging added constraints beyond current
func ContextApplied(current, merged *model.FilterSet) bool {
	return merged.Count() > current.Count()
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
