package model

// Property is one flattened, sellable unit: a project joined with its
// address, configuration and price variant.
type Property struct {
	ID              string
	ProjectName     string
	Slug            string
	BHK             string
	FurnishedType   string
	CarpetArea      float64
	CarpetAreaKnown bool
	Bathrooms       string
	Balcony         string
	FullAddress     string
	Landmark        string
	Price           float64
	PriceKnown      bool
	Status          string
	PropertyImages  []string
	FloorPlanImage  string
	Lift            bool
	ParkingType     string
	// AmenityTags are lowercase tags derived at load time (lift, parking, balcony, furnished)
	AmenityTags []string
}

// FormattedProperty is the display projection returned to clients
type FormattedProperty struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	City            string   `json:"city"`
	Locality        string   `json:"locality"`
	BHK             string   `json:"bhk"`
	Price           string   `json:"price"`
	PriceValue      float64  `json:"priceValue"`
	CarpetArea      string   `json:"carpetArea"`
	CarpetAreaValue float64  `json:"carpetAreaValue"`
	Status          string   `json:"status"`
	Amenities       []string `json:"amenities"`
	Bathrooms       string   `json:"bathrooms"`
	Balcony         string   `json:"balcony"`
	FurnishedType   string   `json:"furnishedType"`
	Slug            string   `json:"slug"`
	Address         string   `json:"address"`
	Image           *string  `json:"image"`
}
