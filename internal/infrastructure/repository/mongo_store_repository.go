package repository

import (
	"context"
	"errors"
	"fmt"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/infrastructure/repository/entity"
	"store-locator-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreRepository implements StoreRepository using MongoDB
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoDB store repository
func NewMongoStoreRepository(db *mongo.Database) *MongoStoreRepository {
	return &MongoStoreRepository{
		collection: db.Collection("stores"),
	}
}

var _ ports.StoreRepository = (*MongoStoreRepository)(nil)

// EnsureIndexes creates the per-shop listing indexes
func (r *MongoStoreRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create store indexes: %w", err)
	}
	return nil
}

// List retrieves the stores of a shop in the requested order
func (r *MongoStoreRepository) List(ctx context.Context, shop string, order ports.StoreOrder) ([]*domain.StoreLocation, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	if order == ports.OrderByNameAsc {
		sort = bson.D{{Key: "name", Value: 1}}
	}

	cursor, err := r.collection.Find(ctx, bson.M{"shop": shop}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer cursor.Close(ctx)

	stores := []*domain.StoreLocation{}
	for cursor.Next(ctx) {
		var doc entity.MongoStoreDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode store: %w", err)
		}
		stores = append(stores, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return stores, nil
}

// Create inserts a new store
func (r *MongoStoreRepository) Create(ctx context.Context, store *domain.StoreLocation) error {
	if _, err := r.collection.InsertOne(ctx, entity.MongoStoreDocFromDomain(store)); err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a store owned by the shop
func (r *MongoStoreRepository) Update(ctx context.Context, store *domain.StoreLocation) (*domain.StoreLocation, error) {
	filter := bson.M{"_id": store.ID, "shop": store.Shop}
	update := bson.M{
		"$set": bson.M{
			"name":         store.Name,
			"address":      store.Address,
			"latitude":     store.Latitude,
			"longitude":    store.Longitude,
			"productId":    store.ProductID,
			"collectionId": store.CollectionID,
			"updatedAt":    store.UpdatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc entity.MongoStoreDoc
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return doc.ToDomain(), nil
}

// Delete removes a store owned by the shop
func (r *MongoStoreRepository) Delete(ctx context.Context, shop string, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "shop": shop})
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAllForShop removes every store of the shop
func (r *MongoStoreRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"shop": shop})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stores: %w", err)
	}
	return result.DeletedCount, nil
}
