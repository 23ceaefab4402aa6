package repository

import (
	"context"
	"errors"
	"fmt"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements SessionRepository using MongoDB
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{
		collection: db.Collection("sessions"),
	}
}

var _ ports.SessionRepository = (*MongoSessionRepository)(nil)

// GetSession retrieves the offline session of a shop
func (r *MongoSessionRepository) GetSession(ctx context.Context, shop string) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// SaveSession upserts the offline session of a shop
func (r *MongoSessionRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": session.Shop}, bson.M{"$set": session}, opts)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession removes the offline session of a shop
func (r *MongoSessionRepository) DeleteSession(ctx context.Context, shop string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
