package types

// Category is one value of the fixed assistance-type enumeration.
// Values outside the constants below only exist before boundary parsing.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryHealth    Category = "health"
	CategoryLegal     Category = "legal"
	CategoryHousing   Category = "housing"
	CategoryClothes   Category = "clothes"
	CategorySocial    Category = "social"
	CategoryEducation Category = "education"
	CategoryWork      Category = "work"

	// CategoryAll selects every category in queries and aggregate views.
	// It is never attached to a record.
	CategoryAll Category = "all"
)

func (c Category) String() string {
	return string(c)
}

type CategoryDefinition struct {
	Value Category `json:"value"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

// CategorySummary is one entry of the directory category view. The synthetic
// "all" entry has no Color, so it is left out of the JSON.
type CategorySummary struct {
	Value Category `json:"value"`
	Icon  string   `json:"icon"`
	Color string   `json:"color,omitempty"`
	Count int      `json:"count"`
}

func CategoryStrings(categories []Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
