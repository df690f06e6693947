package service

import (
	"context"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/model"
	"github.com/parentbridge/parent-assistant/internal/store"
	"github.com/parentbridge/parent-assistant/pkg/logger"
	"github.com/parentbridge/parent-assistant/pkg/metrics"
)

// DefaultNearbyRadiusMeters is used when a nearby query omits
// max_distance.
const DefaultNearbyRadiusMeters = 10000

// SchoolService serves the read-only school directory. It shares the
// repository with the chat subsystem but has no integration point with
// it.
type SchoolService struct {
	store  store.SchoolStore
	logger *logger.Logger
}

// NewSchoolService creates a new school service.
func NewSchoolService(st store.SchoolStore, log *logger.Logger) *SchoolService {
	return &SchoolService{store: st, logger: log}
}

// List returns all schools.
func (s *SchoolService) List(ctx context.Context) ([]model.School, error) {
	metrics.SchoolQueriesTotal.WithLabelValues("list").Inc()
	return s.store.List(ctx)
}

// Nearby returns schools within maxDistanceMeters of the given point,
// closest first.
func (s *SchoolService) Nearby(ctx context.Context, lng, lat float64, maxDistanceMeters int) ([]model.School, error) {
	if lng < -180 || lng > 180 {
		return nil, apperr.Validation("lng must be between -180 and 180")
	}
	if lat < -90 || lat > 90 {
		return nil, apperr.Validation("lat must be between -90 and 90")
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = DefaultNearbyRadiusMeters
	}

	metrics.SchoolQueriesTotal.WithLabelValues("nearby").Inc()
	return s.store.Nearby(ctx, lng, lat, maxDistanceMeters)
}
