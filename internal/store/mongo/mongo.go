// Package mongo implements the persistence ports against MongoDB.
// Conversations are single documents with the message sequence embedded,
// so dialogue order is the array order and appends are $push updates.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	conversationsCollection = "conversations"
	schoolsCollection       = "schools"

	connectTimeout = 10 * time.Second
)

// Store wraps a Mongo database and implements store.ConversationStore,
// store.SchoolStore and store.Pinger.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the Mongo connection and verifies it with a ping.
// A failure here is fatal to the process; the connection handle is
// acquired once and reused, pooling is the driver's concern.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

// EnsureIndexes creates the indexes the queries rely on: the user
// listing sort and the 2dsphere index behind the nearby school query.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.conversations().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation index: %w", err)
	}

	_, err = s.schools().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create school location index: %w", err)
	}

	return nil
}

// Ping checks store connectivity for the health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) conversations() *mongo.Collection {
	return s.db.Collection(conversationsCollection)
}

func (s *Store) schools() *mongo.Collection {
	return s.db.Collection(schoolsCollection)
}
