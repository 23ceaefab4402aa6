package entity

import (
	"testing"
	"time"

	"store-locator-shopify-layer/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestMongoStoreDoc_KeepsNullableFields(t *testing.T) {
	lat := 40.0
	now := time.Now().UTC()
	in := &domain.StoreLocation{
		ID:        "s1",
		Shop:      "acme",
		Name:      "Downtown",
		Address:   "1 Main St",
		Latitude:  &lat,
		CreatedAt: now,
		UpdatedAt: now,
	}

	out := MongoStoreDocFromDomain(in).ToDomain()
	assert.Equal(t, in, out)
	assert.Nil(t, out.Longitude)
	assert.Nil(t, out.ProductID)
}
