package server

import (
	"net/http"

	"watizat/internal/directory"
	"watizat/internal/taxonomy"
	"watizat/pkg/types"
)

type locationQuery struct {
	Category string   `form:"category"`
	Lat      *float64 `form:"lat"`
	Lng      *float64 `form:"lng"`
	RadiusKm float64  `form:"radius_km"`
}

// origin returns the query position, or nil when neither coordinate is set.
func (q *locationQuery) origin() (*directory.Point, error) {
	if q.Lat == nil && q.Lng == nil {
		return nil, nil
	}

	if q.Lat == nil || q.Lng == nil {
		return nil, badRequest("lat and lng must be given together")
	}

	p, err := directory.NewPoint(*q.Lat, *q.Lng)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Service) handleListLocations(w http.ResponseWriter, r *http.Request) {
	var q locationQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := taxonomy.ParseSelector(q.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	origin, err := q.origin()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if origin == nil {
		locations, err := s.locations.ByCategory(category)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
		return
	}

	near, err := s.locations.Near(*origin, category, q.RadiusKm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"locations": near})
}

func (s *Service) handleLocationCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": s.locations.Summary()})
}

func (s *Service) handleNearestLocation(w http.ResponseWriter, r *http.Request) {
	var q locationQuery
	if err := decodeQuery(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := taxonomy.ParseSelector(q.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	origin, err := q.origin()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if origin == nil {
		s.writeError(w, r, badRequest("lat and lng are required"))
		return
	}

	nearest, err := s.locations.Nearest(*origin, category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]types.LocationDistance{"nearest": nearest})
}
