package model

// Status values a property or filter can carry
const (
	StatusReadyToMove       = "READY_TO_MOVE"
	StatusUnderConstruction = "UNDER_CONSTRUCTION"
)

// Furnishing values
const (
	FurnishedFull = "FURNISHED"
	FurnishedSemi = "SEMI_FURNISHED"
	FurnishedNone = "UNFURNISHED"
)

// FilterSet represents the structured search constraints of one turn.
// A nil field (or empty Amenities) means "unconstrained".
type FilterSet struct {
	City        *string  `json:"city"`
	BHK         *string  `json:"bhk"`
	MinBudget   *float64 `json:"minBudget"`
	MaxBudget   *float64 `json:"maxBudget"`
	MinArea     *float64 `json:"minArea"`
	MaxArea     *float64 `json:"maxArea"`
	Status      *string  `json:"status"`
	Locality    *string  `json:"locality"`
	ProjectName *string  `json:"projectName"`
	NearMetro   *bool    `json:"nearMetro"`
	Amenities   []string `json:"amenities"`
}

// Clone returns a deep copy
func (f *FilterSet) Clone() *FilterSet {
	if f == nil {
		return &FilterSet{}
	}
	out := &FilterSet{
		City:        cloneString(f.City),
		BHK:         cloneString(f.BHK),
		MinBudget:   cloneFloat(f.MinBudget),
		MaxBudget:   cloneFloat(f.MaxBudget),
		MinArea:     cloneFloat(f.MinArea),
		MaxArea:     cloneFloat(f.MaxArea),
		Status:      cloneString(f.Status),
		Locality:    cloneString(f.Locality),
		ProjectName: cloneString(f.ProjectName),
	}
	if f.NearMetro != nil {
		v := *f.NearMetro
		out.NearMetro = &v
	}
	if len(f.Amenities) > 0 {
		out.Amenities = append([]string(nil), f.Amenities...)
	}
	return out
}

// Count returns the number of constrained fields
func (f *FilterSet) Count() int {
	if f == nil {
		return 0
	}
	n := 0
	for _, set := range []bool{
		f.City != nil,
		f.BHK != nil,
		f.MinBudget != nil,
		f.MaxBudget != nil,
		f.MinArea != nil,
		f.MaxArea != nil,
		f.Status != nil,
		f.Locality != nil,
		f.ProjectName != nil,
		f.NearMetro != nil,
		len(f.Amenities) > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no field is constrained
func (f *FilterSet) IsEmpty() bool {
	return f.Count() == 0
}

// HasLocation reports whether a city or locality is set
func (f *FilterSet) HasLocation() bool {
	return f != nil && (f.City != nil || f.Locality != nil)
}

// Overlay writes every constrained field of src onto f
func (f *FilterSet) Overlay(src *FilterSet) {
	if src == nil {
		return
	}
	s := src.Clone()
	if s.City != nil {
		f.City = s.City
	}
	if s.BHK != nil {
		f.BHK = s.BHK
	}
	if s.MinBudget != nil {
		f.MinBudget = s.MinBudget
	}
	if s.MaxBudget != nil {
		f.MaxBudget = s.MaxBudget
	}
	if s.MinArea != nil {
		f.MinArea = s.MinArea
	}
	if s.MaxArea != nil {
		f.MaxArea = s.MaxArea
	}
	if s.Status != nil {
		f.Status = s.Status
	}
	if s.Locality != nil {
		f.Locality = s.Locality
	}
	if s.ProjectName != nil {
		f.ProjectName = s.ProjectName
	}
	if s.NearMetro != nil {
		f.NearMetro = s.NearMetro
	}
	if len(s.Amenities) > 0 {
		f.Amenities = s.Amenities
	}
}

// StringPtr returns a pointer to v
func StringPtr(v string) *string {
	return &v
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// BoolPtr returns a pointer to v
func BoolPtr(v bool) *bool {
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
