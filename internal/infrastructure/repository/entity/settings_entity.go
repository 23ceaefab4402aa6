package entity

import (
	"time"

	"store-locator-shopify-layer/internal/domain"
)

// MongoSettingsDoc represents a shop settings record in MongoDB
type MongoSettingsDoc struct {
	ID              string    `bson:"_id"`
	Shop            string    `bson:"shop"`
	StoreLocatorURL *string   `bson:"storeLocatorUrl"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSettingsDoc) ToDomain() *domain.ShopSettings {
	return &domain.ShopSettings{
		ID:              d.ID,
		Shop:            d.Shop,
		StoreLocatorURL: d.StoreLocatorURL,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
