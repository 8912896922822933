package directory

import (
	"fmt"
	"math"
	"sort"

	"watizat/internal/utils"
	"watizat/pkg/types"
)

const earthRadiusKm = 6371.0

type Point struct {
	Lat float64
	Lng float64
}

func NewPoint(lat, lng float64) (Point, error) {
	if !(lat >= -90 && lat <= 90) || !(lng >= -180 && lng <= 180) {
		return Point{}, fmt.Errorf("%w: lat=%v lng=%v", types.ErrInvalidCoordinates, lat, lng)
	}
	return Point{Lat: lat, Lng: lng}, nil
}

// DistanceTo returns the haversine distance in kilometers.
func (p Point) DistanceTo(q Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Near returns the locations matching value sorted by distance from origin,
// nearest first. Ties keep dataset order. A positive radiusKm drops anything
// farther away. Distances are rounded to one decimal.
func (d *Directory) Near(origin Point, value types.Category, radiusKm float64) ([]types.LocationDistance, error) {
	candidates, err := d.ByCategory(value)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		loc  types.HelpLocation
		dist float64
	}

	rs := make([]ranked, 0, len(candidates))
	for _, loc := range candidates {
		dist := origin.DistanceTo(Point{Lat: loc.Lat, Lng: loc.Lng})
		if radiusKm > 0 && dist > radiusKm {
			continue
		}
		rs = append(rs, ranked{loc: loc, dist: dist})
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].dist < rs[j].dist
	})

	out := make([]types.LocationDistance, len(rs))
	for i, r := range rs {
		out[i] = types.LocationDistance{
			HelpLocation: r.loc,
			Distance:     utils.RoundFloat64(r.dist, 1),
		}
	}

	return out, nil
}

// Nearest returns the closest location matching value.
func (d *Directory) Nearest(origin Point, value types.Category) (types.LocationDistance, error) {
	near, err := d.Near(origin, value, 0)
	if err != nil {
		return types.LocationDistance{}, err
	}

	if len(near) == 0 {
		return types.LocationDistance{}, fmt.Errorf("%w: category %q", types.ErrNoLocationFound, value)
	}

	return near[0], nil
}
