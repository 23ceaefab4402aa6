package entity

import (
	"time"

	"store-locator-shopify-layer/internal/domain"
)

// MongoStoreDoc represents a store location in MongoDB
type MongoStoreDoc struct {
	ID           string    `bson:"_id"`
	Shop         string    `bson:"shop"`
	Name         string    `bson:"name"`
	Address      string    `bson:"address"`
	Latitude     *float64  `bson:"latitude"`
	Longitude    *float64  `bson:"longitude"`
	ProductID    *string   `bson:"productId"`
	CollectionID *string   `bson:"collectionId"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoStoreDoc) ToDomain() *domain.StoreLocation {
	return &domain.StoreLocation{
		ID:           d.ID,
		Shop:         d.Shop,
		Name:         d.Name,
		Address:      d.Address,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		ProductID:    d.ProductID,
		CollectionID: d.CollectionID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoStoreDocFromDomain converts a domain entity to a MongoDB document
func MongoStoreDocFromDomain(s *domain.StoreLocation) *MongoStoreDoc {
	return &MongoStoreDoc{
		ID:           s.ID,
		Shop:         s.Shop,
		Name:         s.Name,
		Address:      s.Address,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		ProductID:    s.ProductID,
		CollectionID: s.CollectionID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
