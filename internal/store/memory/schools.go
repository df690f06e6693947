package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/parentbridge/parent-assistant/internal/model"
)

const earthRadiusMeters = 6371000

// SchoolStore is an in-memory store.SchoolStore seeded at construction.
type SchoolStore struct {
	mu      sync.RWMutex
	schools []model.School
}

// NewSchoolStore creates a school store with the given directory entries.
func NewSchoolStore(schools []model.School) *SchoolStore {
	return &SchoolStore{
		schools: append([]model.School(nil), schools...),
	}
}

// List returns all schools.
func (s *SchoolStore) List(ctx context.Context) ([]model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.School(nil), s.schools...), nil
}

// Nearby returns schools within maxDistanceMeters of the point, closest
// first, ranked by haversine distance.
func (s *SchoolStore) Nearby(ctx context.Context, lng, lat float64, maxDistanceMeters int) ([]model.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ranked struct {
		school   model.School
		distance float64
	}

	var within []ranked
	for _, school := range s.schools {
		d := haversine(lat, lng, school.Location.Latitude(), school.Location.Longitude())
		if d <= float64(maxDistanceMeters) {
			within = append(within, ranked{school: school, distance: d})
		}
	}

	sort.Slice(within, func(i, j int) bool {
		return within[i].distance < within[j].distance
	})

	out := make([]model.School, 0, len(within))
	for _, r := range within {
		out = append(out, r.school)
	}
	return out, nil
}

func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
