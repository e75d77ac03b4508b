package repository

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"propchat/internal/model"
)

var (
	leadingNumberRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)
	bhkRe           = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*bhk`)
)

// parseNumber reads the leading number of s, ignoring digit-group commas.
// ok is false when s does not start with a number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	m := leadingNumberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func enumSpelling(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func normalizeStatus(s string) string {
	switch enumSpelling(s) {
	case model.StatusReadyToMove, "READY", "READY_TO_MOVE_IN":
		return model.StatusReadyToMove
	case model.StatusUnderConstruction, "UNDERCONSTRUCTION":
		return model.StatusUnderConstruction
	default:
		return ""
	}
}

func normalizeFurnished(s string) string {
	switch enumSpelling(s) {
	case model.FurnishedFull, "FULLY_FURNISHED":
		return model.FurnishedFull
	case model.FurnishedSemi, "SEMIFURNISHED":
		return model.FurnishedSemi
	case model.FurnishedNone, "NOT_FURNISHED":
		return model.FurnishedNone
	default:
		return ""
	}
}

func normalizeBHK(s string) string {
	s = strings.TrimSpace(s)
	if m := bhkRe.FindStringSubmatch(s); m != nil {
		return m[1] + "BHK"
	}
	return strings.ToUpper(s)
}

// parseImages accepts a JSON array of URLs or a single URL
func parseImages(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(s), &urls); err != nil {
			return nil
		}
		out := urls[:0]
		for _, u := range urls {
			if u = strings.TrimSpace(u); u != "" {
				out = append(out, u)
			}
		}
		return out
	}
	return []string{s}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

// amenityTags derives the tags a property can be matched on
func amenityTags(p *model.Property) []string {
	var tags []string
	if p.Lift {
		tags = append(tags, "lift")
	}
	if hasParking(p.ParkingType) {
		tags = append(tags, "parking")
	}
	if n, ok := parseNumber(p.Balcony); ok && n > 0 {
		tags = append(tags, "balcony")
	}
	if p.FurnishedType == model.FurnishedFull || p.FurnishedType == model.FurnishedSemi {
		tags = append(tags, "furnished")
	}
	return tags
}

func hasParking(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no", "0", "false", "n/a":
		return false
	}
	return true
}
