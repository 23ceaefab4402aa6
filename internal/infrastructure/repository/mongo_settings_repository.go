package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/infrastructure/repository/entity"
	"store-locator-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsRepository implements SettingsRepository using MongoDB
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository
func NewMongoSettingsRepository(db *mongo.Database) *MongoSettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection("shop_settings"),
	}
}

var _ ports.SettingsRepository = (*MongoSettingsRepository)(nil)

// EnsureIndexes creates the unique shop index
func (r *MongoSettingsRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "shop", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create settings index: %w", err)
	}
	return nil
}

// GetByShop retrieves the settings of a shop
func (r *MongoSettingsRepository) GetByShop(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	var doc entity.MongoSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"shop": shop}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return doc.ToDomain(), nil
}

// Ensure retrieves the settings of a shop, inserting an empty record if missing
func (r *MongoSettingsRepository) Ensure(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":             uuid.NewString(),
			"storeLocatorUrl": nil,
			"createdAt":       now,
			"updatedAt":       now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc entity.MongoSettingsDoc
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"shop": shop}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to ensure settings: %w", err)
	}
	return doc.ToDomain(), nil
}

// SetStoreLocatorURL upserts the locator URL of a shop
func (r *MongoSettingsRepository) SetStoreLocatorURL(ctx context.Context, shop string, url *string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"storeLocatorUrl": url,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": shop}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// DeleteByShop removes the settings of a shop
func (r *MongoSettingsRepository) DeleteByShop(ctx context.Context, shop string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"shop": shop}); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
