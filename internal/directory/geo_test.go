package directory

import (
	"math"
	"testing"

	"watizat/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lyon = Point{Lat: 45.7640, Lng: 4.8357}

func TestNewPoint(t *testing.T) {
	_, err := NewPoint(48.85, 2.35)
	assert.NoError(t, err)

	for _, p := range [][2]float64{{90.1, 0}, {-90.1, 0}, {0, 180.5}, {0, -180.5}, {math.NaN(), 0}} {
		_, err := NewPoint(p[0], p[1])
		assert.ErrorIs(t, err, types.ErrInvalidCoordinates, p)
	}
}

func TestDistanceTo(t *testing.T) {
	paris := Point{Lat: 48.8566, Lng: 2.3522}

	assert.InDelta(t, 391.5, paris.DistanceTo(lyon), 0.5)
	assert.InDelta(t, paris.DistanceTo(lyon), lyon.DistanceTo(paris), 1e-9)
	assert.Zero(t, paris.DistanceTo(paris))
}

func TestNearSortsByDistance(t *testing.T) {
	d := embedded(t)

	near, err := d.Near(lyon, types.CategoryAll, 0)
	require.NoError(t, err)
	require.Len(t, near, d.Len())

	assert.Equal(t, "lyon-housing-001", near[0].ID)
	assert.Equal(t, 0.0, near[0].Distance)
	assert.Equal(t, "lyon-health-002", near[1].ID)
	assert.Equal(t, 0.4, near[1].Distance)

	for i := 1; i < len(near); i++ {
		assert.LessOrEqual(t, near[i-1].Distance, near[i].Distance)
	}
}

func TestNearRadius(t *testing.T) {
	d := embedded(t)
	origin := Point{Lat: 48.8847, Lng: 2.3697}

	near, err := d.Near(origin, types.CategoryAll, 10)
	require.NoError(t, err)
	assert.Len(t, near, 13)
	for _, loc := range near {
		assert.LessOrEqual(t, loc.Distance, 10.0)
	}
}

func TestNearStableOnTies(t *testing.T) {
	d, err := New([]types.HelpLocation{
		{ID: "first", Category: types.CategoryHealth, Lat: 46.6034, Lng: 1.8883},
		{ID: "second", Category: types.CategoryHealth, Lat: 46.6034, Lng: 1.8883},
		{ID: "third", Category: types.CategoryHealth, Lat: 46.6034, Lng: 1.8883},
	})
	require.NoError(t, err)

	near, err := d.Near(lyon, types.CategoryHealth, 0)
	require.NoError(t, err)
	require.Len(t, near, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{near[0].ID, near[1].ID, near[2].ID})
}

func TestNearest(t *testing.T) {
	d := embedded(t)

	loc, err := d.Nearest(lyon, types.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, "lyon-food-001", loc.ID)
	assert.Equal(t, 1.7, loc.Distance)

	_, err = d.Nearest(lyon, types.CategoryWork)
	assert.ErrorIs(t, err, types.ErrNoLocationFound)

	_, err = d.Nearest(lyon, "nope")
	assert.ErrorIs(t, err, types.ErrInvalidCategory)
}
