package repository

import (
	"strings"

	"propchat/internal/model"
)

// joinProperties flattens the four collections. Lookups are left joins: a
// missing address or configuration leaves the fields at their defaults, and a
// project without variants still yields one property.
func joinProperties(projects, addresses, configs, variants []Record) []model.Property {
	addressByProject := make(map[string]Record, len(addresses))
	for _, a := range addresses {
		if _, seen := addressByProject[a["projectId"]]; !seen {
			addressByProject[a["projectId"]] = a
		}
	}

	configsByProject := make(map[string][]Record)
	for _, c := range configs {
		configsByProject[c["projectId"]] = append(configsByProject[c["projectId"]], c)
	}

	variantsByConfig := make(map[string][]Record)
	for _, v := range variants {
		variantsByConfig[v["configurationId"]] = append(variantsByConfig[v["configurationId"]], v)
	}

	properties := make([]model.Property, 0, len(variants))
	for _, proj := range projects {
		addr := addressByProject[proj["id"]]
		emitted := false

		for _, cfg := range configsByProject[proj["id"]] {
			for _, v := range variantsByConfig[cfg["id"]] {
				properties = append(properties, buildProperty(proj, addr, cfg, v))
				emitted = true
			}
		}

		if !emitted {
			properties = append(properties, buildProperty(proj, addr, nil, nil))
		}
	}
	return properties
}

func buildProperty(proj, addr, cfg, variant Record) model.Property {
	p := model.Property{
		ID:          proj["id"],
		ProjectName: strings.TrimSpace(proj["projectName"]),
		Slug:        strings.TrimSpace(proj["slug"]),
		Status:      normalizeStatus(proj["status"]),
		FullAddress: strings.TrimSpace(addr["fullAddress"]),
		Landmark:    strings.TrimSpace(addr["landmark"]),
		BHK:         normalizeBHK(cfg["type"]),
	}

	if variant != nil {
		if id := strings.TrimSpace(variant["id"]); id != "" {
			p.ID = id
		}
		p.Price, p.PriceKnown = parseNumber(variant["price"])
		p.CarpetArea, p.CarpetAreaKnown = parseNumber(variant["carpetArea"])
		p.Bathrooms = strings.TrimSpace(variant["bathrooms"])
		p.Balcony = strings.TrimSpace(variant["balcony"])
		p.FurnishedType = normalizeFurnished(variant["furnishedType"])
		p.PropertyImages = parseImages(variant["propertyImages"])
		p.FloorPlanImage = strings.TrimSpace(variant["floorPlanImage"])
		p.Lift = parseBool(variant["lift"])
		p.ParkingType = strings.TrimSpace(variant["parkingType"])
	}

	p.AmenityTags = amenityTags(&p)
	return p
}
