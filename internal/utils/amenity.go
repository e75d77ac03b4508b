package utils

import (
	"regexp"
	"strings"
)

// AmenityKeywords maps each canonical amenity tag to the phrases that mean it.
// Order is the extraction order.
var AmenityKeywords = []struct {
	Tag      string
	Keywords []string
}{
	{Tag: "gym", Keywords: []string{"gym", "fitness", "fitness center"}},
	{Tag: "pool", Keywords: []string{"pool", "swimming pool", "swimming"}},
	{Tag: "parking", Keywords: []string{"parking", "car parking", "vehicle parking"}},
	{Tag: "lift", Keywords: []string{"lift", "elevator"}},
	{Tag: "garden", Keywords: []string{"garden", "park", "green space"}},
	{Tag: "security", Keywords: []string{"security", "24x7 security", "gated"}},
	{Tag: "club", Keywords: []string{"club", "clubhouse", "club house"}},
}

var amenityPatterns = compileAmenityPatterns()

func compileAmenityPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(AmenityKeywords))
	for _, a := range AmenityKeywords {
		alts := make([]string, 0, len(a.Keywords))
		for _, kw := range a.Keywords {
			alts = append(alts, regexp.QuoteMeta(kw))
		}
		// plural forms count ("lifts", "gardens"); "park" must not hit "parking"
		out[a.Tag] = regexp.MustCompile(`\b(?:` + strings.Join(alts, "|") + `)s?\b`)
	}
	return out
}

// MatchAmenities returns the canonical tags whose keywords occur in text,
// each at most once, in table order.
func MatchAmenities(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, a := range AmenityKeywords {
		if amenityPatterns[a.Tag].MatchString(lower) {
			tags = append(tags, a.Tag)
		}
	}
	return tags
}

// NormalizeAmenity maps a free-form amenity name onto a canonical tag.
// Unknown names come back lowercased and trimmed.
func NormalizeAmenity(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}
	for _, a := range AmenityKeywords {
		if a.Tag == lower {
			return a.Tag
		}
	}
	for _, a := range AmenityKeywords {
		if amenityPatterns[a.Tag].MatchString(lower) {
			return a.Tag
		}
	}
	return lower
}

// AmenityMatches reports whether any wanted tag is a substring of any tag the
// property carries.
func AmenityMatches(wanted, have []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(w)
		if w == "" {
			continue
		}
		for _, h := range have {
			if strings.Contains(strings.ToLower(h), w) {
				return true
			}
		}
	}
	return false
}
