package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"propchat/internal/model"
	"propchat/internal/utils"
)

// Cities recognised in free text, in match priority order
var Cities = []string{"pune", "mumbai", "bangalore", "delhi", "hyderabad", "chennai"}

// Localities recognised in free text, in match priority order
var Localities = []string{
	"chembur", "ravet", "kharadi", "wakad", "baner", "punawale",
	"hinjewadi", "viman nagar", "koregaon park", "kalyani nagar",
	"mulund", "thane", "andheri", "powai", "goregaon",
}

var metroPhrases = []string{"near metro", "metro station", "metro access", "close to metro", "near to metro"}

const (
	atMost  = `(?:under|below|less than|within|upto|up to|maximum|max)`
	atLeast = `(?:above|more than|greater than|minimum|min|atleast|at least)`
	number  = `(\d+(?:\.\d+)?)`
	money   = `\s*(?:rs\.?|₹)?\s*` + number + `\s*(crores?|cr|lakhs?|l)\b`
	sqft    = `\s*` + number + `\s*(?:sq\.?\s*ft|square\s*feet|sqft)`
)

var (
	bhkPattern       = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*bhk`)
	maxBudgetPattern = regexp.MustCompile(atMost + money)
	minBudgetPattern = regexp.MustCompile(atLeast + money)
	minAreaPatterns  = []*regexp.Regexp{
		regexp.MustCompile(atLeast + sqft),
		regexp.MustCompile(`(?:carpet area|area)\s*(?:above|more than|greater than)\s*` + number),
	}
	maxAreaPatterns = []*regexp.Regexp{
		regexp.MustCompile(atMost + sqft),
		regexp.MustCompile(`(?:carpet area|area)\s*(?:under|below|less than)\s*` + number),
	}
	readyPattern             = regexp.MustCompile(`\bready(?:[\s-]to[\s-]move)?\b`)
	underConstructionPattern = regexp.MustCompile(`\bunder[\s-]construction\b`)
	projectNamePatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?:project|property|building)\s+(?:named|called)?\s*"([^"]+)"`),
		regexp.MustCompile(`(?:project|property|building)\s+(?:named|called)\s+([a-z0-9][a-z0-9 ]*?)(?:\s+(?:in|at|near|under|below|above|with|for|and)\b|[,.?!]|$)`),
	}
	digitCommaPattern = regexp.MustCompile(`(\d),(\d)`)
	unitAmountPattern = regexp.MustCompile(`^(?:rs\.?|₹)?\s*` + number + `\s*(crores?|cr|lakhs?|l)\b`)
)

// PatternExtractor is the deterministic rule-based extractor. It never fails.
type PatternExtractor struct{}

// NewPatternExtractor creates a pattern extractor
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract implements Extractor
func (p *PatternExtractor) Extract(_ context.Context, text string) (*model.FilterSet, error) {
	return ExtractPatterns(text), nil
}

// ExtractPatterns applies the rule table to text. Each field is matched
// independently; the first rule that hits wins.
func ExtractPatterns(text string) *model.FilterSet {
	lower := stripDigitCommas(strings.ToLower(text))
	f := &model.FilterSet{}

	for _, city := range Cities {
		if strings.Contains(lower, city) {
			f.City = model.StringPtr(titleCase(city))
			break
		}
	}

	if m := bhkPattern.FindStringSubmatch(lower); m != nil {
		f.BHK = model.StringPtr(m[1] + "BHK")
	}

	if m := maxBudgetPattern.FindStringSubmatch(lower); m != nil {
		f.MaxBudget = scaleAmount(m[1], m[2])
	}
	if m := minBudgetPattern.FindStringSubmatch(lower); m != nil {
		f.MinBudget = scaleAmount(m[1], m[2])
	}

	f.MinArea = firstNumber(minAreaPatterns, lower)
	f.MaxArea = firstNumber(maxAreaPatterns, lower)

	switch {
	case readyPattern.MatchString(lower):
		f.Status = model.StringPtr(model.StatusReadyToMove)
	case underConstructionPattern.MatchString(lower):
		f.Status = model.StringPtr(model.StatusUnderConstruction)
	}

	for _, phrase := range metroPhrases {
		if strings.Contains(lower, phrase) {
			f.NearMetro = model.BoolPtr(true)
			break
		}
	}

	amenityText := lower
	for _, loc := range Localities {
		if strings.Contains(lower, loc) {
			f.Locality = model.StringPtr(titleCase(loc))
			// locality names like "koregaon park" are not amenity requests
			amenityText = strings.ReplaceAll(lower, loc, " ")
			break
		}
	}
	f.Amenities = utils.MatchAmenities(amenityText)

	for _, re := range projectNamePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				f.ProjectName = model.StringPtr(name)
				break
			}
		}
	}

	return f
}

// scaleAmount converts "<n> <unit>" into rupees
func scaleAmount(value, unit string) *float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	switch {
	case strings.HasPrefix(unit, "cr"):
		v *= 1e7
	case strings.HasPrefix(unit, "l"):
		v *= 1e5
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return model.Float64Ptr(v)
}

func firstNumber(patterns []*regexp.Regexp, text string) *float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return model.Float64Ptr(v)
			}
		}
	}
	return nil
}

func stripDigitCommas(s string) string {
	// applied twice so "1,20,00,000" loses every separator
	s = digitCommaPattern.ReplaceAllString(s, "$1$2")
	return digitCommaPattern.ReplaceAllString(s, "$1$2")
}

// titleCase builds a fresh Caser per call; a Caser is not safe for concurrent use
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
