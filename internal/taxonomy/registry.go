// Package taxonomy is the source of truth for the help categories.
//
// The set is fixed at build time. To add a category, add a constant in
// pkg/types and a definition below; display order follows this list.
package taxonomy

import (
	"fmt"
	"slices"

	"watizat/pkg/types"
)

// AllIcon is shown next to the synthetic "all" selector.
const AllIcon = "📍"

var definitions = []types.CategoryDefinition{
	{Value: types.CategoryFood, Icon: "🍽️", Color: "bg-green-500"},
	{Value: types.CategoryHealth, Icon: "🏥", Color: "bg-red-500"},
	{Value: types.CategoryLegal, Icon: "⚖️", Color: "bg-blue-500"},
	{Value: types.CategoryHousing, Icon: "🏠", Color: "bg-purple-500"},
	{Value: types.CategoryClothes, Icon: "👕", Color: "bg-orange-500"},
	{Value: types.CategorySocial, Icon: "🤝", Color: "bg-pink-500"},
	{Value: types.CategoryEducation, Icon: "📚", Color: "bg-indigo-500"},
	{Value: types.CategoryWork, Icon: "💼", Color: "bg-yellow-500"},
}

var byValue = func() map[types.Category]types.CategoryDefinition {
	m := make(map[types.Category]types.CategoryDefinition, len(definitions))
	for _, d := range definitions {
		m[d.Value] = d
	}
	return m
}()

// Categories returns the category definitions in display order. The "all"
// selector is not included.
func Categories() []types.CategoryDefinition {
	return slices.Clone(definitions)
}

// Values returns the category values in display order.
func Values() []types.Category {
	out := make([]types.Category, len(definitions))
	for i, d := range definitions {
		out[i] = d.Value
	}
	return out
}

// IsValid reports whether value names a category that can be attached to a
// record. "all" is not one.
func IsValid(value string) bool {
	_, ok := byValue[types.Category(value)]
	return ok
}

func Definition(c types.Category) (types.CategoryDefinition, bool) {
	d, ok := byValue[c]
	return d, ok
}

// Parse converts external input into a storable category.
func Parse(value string) (types.Category, error) {
	if !IsValid(value) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidCategory, value)
	}
	return types.Category(value), nil
}

// ParseSelector converts a query filter value. An empty value and "all" both
// select every category and yield types.CategoryAll.
func ParseSelector(value string) (types.Category, error) {
	if value == "" || value == string(types.CategoryAll) {
		return types.CategoryAll, nil
	}
	return Parse(value)
}

// ParseAll parses every value, failing on the first invalid one.
func ParseAll(values []string) ([]types.Category, error) {
	out := make([]types.Category, 0, len(values))
	for _, v := range values {
		c, err := Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Dedupe collapses repeated categories, keeping first occurrence order.
func Dedupe(categories []types.Category) []types.Category {
	seen := make(map[types.Category]bool, len(categories))
	out := make([]types.Category, 0, len(categories))
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
