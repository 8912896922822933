// Package directory holds the help location catalogue. It is loaded once at
// startup and only read afterwards, so a *Directory is safe for concurrent use.
package directory

import (
	"fmt"
	"strings"

	"watizat/internal/taxonomy"
	"watizat/internal/utils"
	"watizat/pkg/types"
)

type Directory struct {
	locations []types.HelpLocation
	counts    map[types.Category]int
}

// New validates the dataset and copies it into a read-only directory. Record
// order is kept as given.
func New(locations []types.HelpLocation) (*Directory, error) {
	d := &Directory{
		locations: make([]types.HelpLocation, 0, len(locations)),
		counts:    make(map[types.Category]int),
	}

	seen := make(map[string]bool, len(locations))
	for i, loc := range locations {
		if strings.TrimSpace(loc.ID) == "" {
			return nil, fmt.Errorf("help location at index %d has no id", i)
		}

		if seen[loc.ID] {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateLocation, loc.ID)
		}
		seen[loc.ID] = true

		if !taxonomy.IsValid(string(loc.Category)) {
			return nil, fmt.Errorf("help location %s: %w: %q", loc.ID, types.ErrInvalidCategory, loc.Category)
		}

		if _, err := NewPoint(loc.Lat, loc.Lng); err != nil {
			return nil, fmt.Errorf("help location %s: %w", loc.ID, err)
		}

		d.locations = append(d.locations, cloneLocation(loc))
		d.counts[loc.Category]++
	}

	return d, nil
}

func (d *Directory) Len() int {
	return len(d.locations)
}

// All returns every location in dataset order. The result is a copy.
func (d *Directory) All() []types.HelpLocation {
	out := make([]types.HelpLocation, len(d.locations))
	for i, loc := range d.locations {
		out[i] = cloneLocation(loc)
	}
	return out
}

// ByCategory returns the locations whose category equals value, or all of
// them for types.CategoryAll. A valid category with no locations yields an
// empty, non-nil slice.
func (d *Directory) ByCategory(value types.Category) ([]types.HelpLocation, error) {
	if value == types.CategoryAll {
		return d.All(), nil
	}

	if !taxonomy.IsValid(string(value)) {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidCategory, value)
	}

	out := make([]types.HelpLocation, 0, d.counts[value])
	for _, loc := range d.locations {
		if loc.Category == value {
			out = append(out, cloneLocation(loc))
		}
	}

	return out, nil
}

// Count returns the number of locations in a category, or the total for
// types.CategoryAll.
func (d *Directory) Count(c types.Category) int {
	if c == types.CategoryAll {
		return len(d.locations)
	}
	return d.counts[c]
}

// Summary returns the "all" entry followed by one entry per registry
// category, in registry order.
func (d *Directory) Summary() []types.CategorySummary {
	defs := taxonomy.Categories()

	out := make([]types.CategorySummary, 0, len(defs)+1)
	out = append(out, types.CategorySummary{
		Value: types.CategoryAll,
		Icon:  taxonomy.AllIcon,
		Count: len(d.locations),
	})

	for _, def := range defs {
		out = append(out, types.CategorySummary{
			Value: def.Value,
			Icon:  def.Icon,
			Color: def.Color,
			Count: d.counts[def.Value],
		})
	}

	return out
}

func cloneLocation(loc types.HelpLocation) types.HelpLocation {
	if loc.Phone != nil {
		loc.Phone = utils.StringPtr(*loc.Phone)
	}
	return loc
}
