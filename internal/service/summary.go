package service

import (
	"fmt"
	"sort"
	"strings"

	"propchat/internal/model"
)

const noResultsAdvice = "Try expanding your search criteria - adjust budget, BHK type, or explore nearby areas for more options."

// Summarize describes a result list using only facts from filters and results
func Summarize(filters *model.FilterSet, results []model.FormattedProperty) string {
	if filters == nil {
		filters = &model.FilterSet{}
	}
	if len(results) == 0 {
		return summarizeEmpty(filters)
	}

	sentences := []string{countSentence(filters, results)}
	for _, s := range []string{
		localitySentence(results),
		priceSentence(results),
		statusSentence(results),
		amenitySentence(results),
	} {
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return strings.Join(sentences, " ")
}

func summarizeEmpty(f *model.FilterSet) string {
	var criteria []string
	if f.BHK != nil {
		criteria = append(criteria, *f.BHK)
	}
	if f.City != nil {
		criteria = append(criteria, "in "+*f.City)
	}
	if f.Locality != nil {
		criteria = append(criteria, "in "+*f.Locality)
	}
	if f.MaxBudget != nil && *f.MaxBudget > 0 {
		criteria = append(criteria, "under "+FormatPrice(*f.MaxBudget))
	}
	if f.Status != nil {
		switch *f.Status {
		case model.StatusReadyToMove:
			criteria = append(criteria, "ready-to-move")
		case model.StatusUnderConstruction:
			criteria = append(criteria, "under construction")
		}
	}

	summary := "No properties found"
	if len(criteria) > 0 {
		summary += " for " + strings.Join(criteria, ", ")
	}
	return summary + ". " + noResultsAdvice
}

func countSentence(f *model.FilterSet, results []model.FormattedProperty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s", len(results), plural(len(results), "property", "properties"))

	if f.BHK != nil {
		b.WriteString(" matching " + *f.BHK)
	} else if bhks := distinct(results, func(p model.FormattedProperty) string { return p.BHK }); len(bhks) > 0 && len(bhks) <= 3 {
		b.WriteString(" (" + strings.Join(bhks, ", ") + ")")
	}

	if cities := distinct(results, func(p model.FormattedProperty) string { return p.City }); len(cities) > 0 {
		b.WriteString(" in " + joinList(cities))
	}

	if f.MaxBudget != nil && *f.MaxBudget > 0 {
		b.WriteString(" within " + FormatPrice(*f.MaxBudget) + " budget")
	}
	return b.String() + "."
}

func localitySentence(results []model.FormattedProperty) string {
	locs := distinct(results, func(p model.FormattedProperty) string { return p.Locality })
	switch {
	case len(locs) == 0:
		return ""
	case len(locs) == 1:
		return fmt.Sprintf("Located in %s.", locs[0])
	case len(locs) == 2:
		return fmt.Sprintf("Available in %s and %s.", locs[0], locs[1])
	default:
		return fmt.Sprintf("Top areas include %s, %s, and %s.", locs[0], locs[1], locs[2])
	}
}

func priceSentence(results []model.FormattedProperty) string {
	var lo, hi float64
	for _, p := range results {
		if p.PriceValue <= 0 {
			continue
		}
		if lo == 0 || p.PriceValue < lo {
			lo = p.PriceValue
		}
		if p.PriceValue > hi {
			hi = p.PriceValue
		}
	}
	switch {
	case hi == 0:
		return ""
	case lo == hi:
		return fmt.Sprintf("Priced at %s.", FormatPrice(lo))
	default:
		return fmt.Sprintf("Price range: %s to %s.", FormatPrice(lo), FormatPrice(hi))
	}
}

func statusSentence(results []model.FormattedProperty) string {
	ready, building := 0, 0
	for _, p := range results {
		switch p.Status {
		case FormatStatus(model.StatusReadyToMove):
			ready++
		case FormatStatus(model.StatusUnderConstruction):
			building++
		}
	}

	switch {
	case ready > 0 && building > 0:
		return fmt.Sprintf("%d ready-to-move and %d under construction.", ready, building)
	case ready > 0:
		return onlyStatus(ready, len(results), "ready-to-move")
	case building > 0:
		return onlyStatus(building, len(results), "under construction")
	}
	return ""
}

// onlyStatus words a single-category breakdown; "all" is claimed only when true
func onlyStatus(n, total int, label string) string {
	switch {
	case n == total && n == 1:
		return fmt.Sprintf("The property is %s.", label)
	case n == total:
		return fmt.Sprintf("All %d properties are %s.", n, label)
	default:
		return fmt.Sprintf("%d %s.", n, label)
	}
}

func amenitySentence(results []model.FormattedProperty) string {
	type tally struct {
		name  string
		count int
	}
	var tallies []tally
	index := make(map[string]int)
	for _, p := range results {
		for _, a := range p.Amenities {
			if a = strings.TrimSpace(a); a == "" {
				continue
			}
			if i, ok := index[a]; ok {
				tallies[i].count++
				continue
			}
			index[a] = len(tallies)
			tallies = append(tallies, tally{name: a, count: 1})
		}
	}

	sort.SliceStable(tallies, func(i, j int) bool { return tallies[i].count > tallies[j].count })
	if len(tallies) > 3 {
		tallies = tallies[:3]
	}

	var parts []string
	for _, t := range tallies {
		if t.count >= 2 {
			parts = append(parts, fmt.Sprintf("%s (%d)", t.name, t.count))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Common amenities: " + strings.Join(parts, ", ") + "."
}

// distinct returns non-empty values in order of first occurrence
func distinct(results []model.FormattedProperty, field func(model.FormattedProperty) string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range results {
		v := strings.TrimSpace(field(p))
		if v == "" || v == "N/A" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// joinList renders "A", "A and B" or "A, B, and C"
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
