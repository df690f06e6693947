package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parentbridge/parent-assistant/internal/apperr"
	"github.com/parentbridge/parent-assistant/internal/model"
)

// Create inserts a new conversation document.
func (s *Store) Create(ctx context.Context, conv *model.Conversation) error {
	if conv.Messages == nil {
		conv.Messages = []model.Message{}
	}
	if _, err := s.conversations().InsertOne(ctx, conv); err != nil {
		return apperr.Store("insert conversation", err)
	}
	return nil
}

// Get returns the full conversation document, messages included.
func (s *Store) Get(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.conversations().FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("conversation", id)
		}
		return nil, apperr.Store("get conversation", err)
	}
	return &conv, nil
}

// AppendMessage pushes one message onto the embedded sequence. Each
// append is a single update with the store's native last-write
// ordering; there is deliberately no transaction spanning the user and
// bot appends of one turn.
func (s *Store) AppendMessage(ctx context.Context, id string, msg model.Message) error {
	res, err := s.conversations().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"updated_at": msg.CreatedAt},
		},
	)
	if err != nil {
		return apperr.Store("append message", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("conversation", id)
	}
	return nil
}

// ListByUser returns a user's conversations, most recently created first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.conversations().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, apperr.Store("list conversations", err)
	}
	defer cur.Close(ctx)

	var out []*model.Conversation
	for cur.Next(ctx) {
		var conv model.Conversation
		if err := cur.Decode(&conv); err != nil {
			return nil, apperr.Store("decode conversation", err)
		}
		out = append(out, &conv)
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Store("list conversations", err)
	}
	return out, nil
}

// Delete removes the conversation and, with it, every embedded message.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.conversations().DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return apperr.Store("delete conversation", err)
	}
	return nil
}
