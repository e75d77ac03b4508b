package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"propchat/internal/model"
	"propchat/internal/utils"
)

const extractionPrompt = `You extract real-estate search filters from a user's message.
Reply with one JSON object and nothing else, using exactly these keys:
{
  "city": string or null,
  "bhk": string like "2BHK" or null,
  "minBudget": number in rupees or null,
  "maxBudget": number in rupees or null,
  "minArea": number in square feet or null,
  "maxArea": number in square feet or null,
  "status": "READY_TO_MOVE" or "UNDER_CONSTRUCTION" or null,
  "locality": string or null,
  "projectName": string or null,
  "nearMetro": true or null,
  "amenities": array of "gym", "pool", "parking", "lift", "garden", "security", "club"
}
Rules:
- 1 crore (cr) = 10000000 rupees; 1 lakh (L) = 100000 rupees.
- "under", "below", "within", "up to" set the maximum; "above", "at least", "minimum" set the minimum.
- Only fill a key the message states. Use null for anything not mentioned. Never guess.`

// ErrInvalidFilters is returned when an oracle reply decodes but is inconsistent
var ErrInvalidFilters = errors.New("invalid filters")

// OracleExtractor delegates extraction to a completion service. Any failure
// is returned so a fallback can take over.
type OracleExtractor struct {
	client  CompletionClient
	timeout time.Duration
}

// NewOracleExtractor creates an oracle-backed extractor. A zero timeout
// leaves the caller's deadline in charge.
func NewOracleExtractor(client CompletionClient, timeout time.Duration) *OracleExtractor {
	return &OracleExtractor{client: client, timeout: timeout}
}

// Enabled reports whether the backing client can be called
func (o *OracleExtractor) Enabled() bool {
	return o != nil && o.client != nil && o.client.IsEnabled()
}

// Extract implements Extractor
func (o *OracleExtractor) Extract(ctx context.Context, text string) (*model.FilterSet, error) {
	if !o.Enabled() {
		return nil, ErrCompletionDisabled
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	reply, err := o.client.Complete(ctx, extractionPrompt, text)
	if err != nil {
		return nil, err
	}

	raw, err := utils.ParseJSONObject(reply)
	if err != nil {
		return nil, err
	}

	return normalizeOracleFilters(raw)
}

// normalizeOracleFilters maps a decoded reply onto a FilterSet. Missing or
// unusable values become nil; contradictory bounds are an error.
func normalizeOracleFilters(raw map[string]any) (*model.FilterSet, error) {
	f := &model.FilterSet{
		City:        titleString(raw["city"]),
		BHK:         bhkValue(raw["bhk"]),
		MinBudget:   amountValue(raw["minBudget"]),
		MaxBudget:   amountValue(raw["maxBudget"]),
		MinArea:     positiveNumber(raw["minArea"]),
		MaxArea:     positiveNumber(raw["maxArea"]),
		Status:      statusValue(raw["status"]),
		Locality:    titleString(raw["locality"]),
		ProjectName: trimmedString(raw["projectName"]),
		Amenities:   amenityList(raw["amenities"]),
	}
	if truthy(raw["nearMetro"]) {
		f.NearMetro = model.BoolPtr(true)
	}

	if f.MinBudget != nil && f.MaxBudget != nil && *f.MinBudget > *f.MaxBudget {
		return nil, fmt.Errorf("%w: minBudget %.0f exceeds maxBudget %.0f", ErrInvalidFilters, *f.MinBudget, *f.MaxBudget)
	}
	if f.MinArea != nil && f.MaxArea != nil && *f.MinArea > *f.MaxArea {
		return nil, fmt.Errorf("%w: minArea %.0f exceeds maxArea %.0f", ErrInvalidFilters, *f.MinArea, *f.MaxArea)
	}
	return f, nil
}

func trimmedString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a", "any":
		return nil
	}
	return &s
}

func titleString(v any) *string {
	s := trimmedString(v)
	if s == nil {
		return nil
	}
	return model.StringPtr(titleCase(*s))
}

func bhkValue(v any) *string {
	switch val := v.(type) {
	case float64:
		if val > 0 {
			return model.StringPtr(strconv.FormatFloat(val, 'f', -1, 64) + "BHK")
		}
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		if m := bhkPattern.FindStringSubmatch(lower); m != nil {
			return model.StringPtr(m[1] + "BHK")
		}
		if n, err := strconv.ParseFloat(lower, 64); err == nil && n > 0 {
			return model.StringPtr(strconv.FormatFloat(n, 'f', -1, 64) + "BHK")
		}
	}
	return nil
}

// amountValue accepts plain rupee numbers and "2 cr" / "80 lakh" strings
func amountValue(v any) *float64 {
	if s, ok := v.(string); ok {
		lower := stripDigitCommas(strings.ToLower(strings.TrimSpace(s)))
		if m := unitAmountPattern.FindStringSubmatch(lower); m != nil {
			return scaleAmount(m[1], m[2])
		}
	}
	return positiveNumber(v)
}

func positiveNumber(v any) *float64 {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", ""), 64)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	if n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil
	}
	return &n
}

func statusValue(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	switch strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToUpper(strings.TrimSpace(s))) {
	case model.StatusReadyToMove, "READY":
		return model.StringPtr(model.StatusReadyToMove)
	case model.StatusUnderConstruction:
		return model.StringPtr(model.StatusUnderConstruction)
	}
	return nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	}
	return false
}

func amenityList(v any) []string {
	var names []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	case string:
		names = strings.Split(val, ",")
	}

	var tags []string
	seen := make(map[string]bool)
	for _, name := range names {
		tag := utils.NormalizeAmenity(name)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
