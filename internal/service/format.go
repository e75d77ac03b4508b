package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"propchat/internal/model"
)

// maxDisplayAmenities caps the amenity list of a formatted property
const maxDisplayAmenities = 3

var (
	crore = decimal.NewFromInt(10_000_000)
	lakh  = decimal.NewFromInt(100_000)
)

// FormatPrice renders rupees as "₹X.XX Cr", "₹X.XX L" or an Indian-grouped amount
func FormatPrice(price float64) string {
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return "N/A"
	}
	d := decimal.NewFromFloat(price)
	switch {
	case d.GreaterThanOrEqual(crore):
		return "₹" + d.Div(crore).StringFixed(2) + " Cr"
	case d.GreaterThanOrEqual(lakh):
		return "₹" + d.Div(lakh).StringFixed(2) + " L"
	default:
		return "₹" + groupIndian(d.Round(3))
	}
}

// groupIndian formats d with the last three integer digits grouped, then pairs
func groupIndian(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, frac, _ := strings.Cut(d.String(), ".")
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		intPart = strings.Join(append(groups, tail), ",")
	}

	if frac != "" {
		return sign + intPart + "." + frac
	}
	return sign + intPart
}

// FormatStatus returns the display label of a status value
func FormatStatus(status string) string {
	switch status {
	case model.StatusReadyToMove:
		return "Ready to Move"
	case model.StatusUnderConstruction:
		return "Under Construction"
	case "":
		return "N/A"
	default:
		return status
	}
}

// DeriveCity finds a known city in an address
func DeriveCity(address string) string {
	lower := strings.ToLower(address)
	for _, city := range Cities {
		if strings.Contains(lower, city) {
			return titleCase(city)
		}
	}
	return "N/A"
}

// DeriveLocality prefers the landmark, else the first address segment
func DeriveLocality(landmark, address string) string {
	if l := strings.TrimSpace(landmark); l != "" {
		return l
	}
	first, _, _ := strings.Cut(address, ",")
	return strings.TrimSpace(first)
}

// DisplayAmenities converts amenity tags to display names
func DisplayAmenities(tags []string) []string {
	out := make([]string, 0, maxDisplayAmenities)
	for _, tag := range tags {
		if len(out) == maxDisplayAmenities {
			break
		}
		out = append(out, titleCase(tag))
	}
	return out
}

// FormatProperty projects a property onto its display form
func FormatProperty(p model.Property) model.FormattedProperty {
	price := 0.0
	if p.PriceKnown {
		price = p.Price
	}
	area := 0.0
	if p.CarpetAreaKnown {
		area = p.CarpetArea
	}

	f := model.FormattedProperty{
		ID:              p.ID,
		Title:           orDefault(p.ProjectName, "Unnamed Project"),
		City:            DeriveCity(p.FullAddress),
		Locality:        DeriveLocality(p.Landmark, p.FullAddress),
		BHK:             orDefault(p.BHK, "N/A"),
		Price:           FormatPrice(price),
		PriceValue:      price,
		CarpetArea:      "N/A",
		CarpetAreaValue: area,
		Status:          FormatStatus(p.Status),
		Amenities:       DisplayAmenities(p.AmenityTags),
		Bathrooms:       orDefault(p.Bathrooms, "N/A"),
		Balcony:         orDefault(p.Balcony, "0"),
		FurnishedType:   orDefault(p.FurnishedType, model.FurnishedNone),
		Slug:            p.Slug,
		Address:         orDefault(p.FullAddress, "Address not available"),
	}
	if area > 0 {
		f.CarpetArea = strconv.FormatFloat(area, 'f', -1, 64) + " sq ft"
	}

	switch {
	case len(p.PropertyImages) > 0:
		f.Image = model.StringPtr(p.PropertyImages[0])
	case p.FloorPlanImage != "":
		f.Image = model.StringPtr(p.FloorPlanImage)
	}
	return f
}

// FormatProperties formats a result list
func FormatProperties(properties []model.Property) []model.FormattedProperty {
	out := make([]model.FormattedProperty, 0, len(properties))
	for _, p := range properties {
		out = append(out, FormatProperty(p))
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
