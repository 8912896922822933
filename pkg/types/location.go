package types

// HelpLocation is a static reference record of a place offering help.
// Nationwide emergency numbers carry placeholder coordinates.
type HelpLocation struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    *string  `json:"phone"`
	Category Category `json:"category"`
	Hours    string   `json:"hours"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Icon     string   `json:"icon"`
}

// LocationDistance is a HelpLocation annotated with its great-circle
// distance in kilometers from a caller supplied point.
type LocationDistance struct {
	HelpLocation
	Distance float64 `json:"distance"`
}
