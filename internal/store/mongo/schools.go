package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/model"
)

// List returns all schools in the directory.
func (s *Store) List(ctx context.Context) ([]model.School, error) {
	cur, err := s.schools().Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Store("list schools", err)
	}
	return decodeSchools(ctx, cur)
}

// Nearby returns schools within maxDistanceMeters of the given point.
// $near returns results ordered by distance, closest first.
func (s *Store) Nearby(ctx context.Context, lng, lat float64, maxDistanceMeters int) ([]model.School, error) {
	filter := bson.M{
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}

	cur, err := s.schools().Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store("nearby schools", err)
	}
	return decodeSchools(ctx, cur)
}

func decodeSchools(ctx context.Context, cur *mongo.Cursor) ([]model.School, error) {
	defer cur.Close(ctx)

	var out []model.School
	for cur.Next(ctx) {
		var school model.School
		if err := cur.Decode(&school); err != nil {
			return nil, apperr.Store("decode school", err)
		}
		out = append(out, school)
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Store("list schools", err)
	}
	return out, nil
}
