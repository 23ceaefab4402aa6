package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoordinate(t *testing.T) {
	lat := ParseCoordinate("40.7128")
	if assert.NotNil(t, lat) {
		assert.InDelta(t, 40.7128, *lat, 1e-9)
	}

	// out of range values are kept as given
	far := ParseCoordinate(" 123.5 ")
	if assert.NotNil(t, far) {
		assert.Equal(t, 123.5, *far)
	}

	assert.Nil(t, ParseCoordinate(""))
	assert.Nil(t, ParseCoordinate("north"))
	assert.Nil(t, ParseCoordinate("NaN"))
	assert.Nil(t, ParseCoordinate("+Inf"))
	assert.Nil(t, ParseCoordinate("1e400"))

	// trailing garbage after a number is ignored
	trailing := ParseCoordinate("40.5abc")
	if assert.NotNil(t, trailing) {
		assert.Equal(t, 40.5, *trailing)
	}
	west := ParseCoordinate("-73.0deg")
	if assert.NotNil(t, west) {
		assert.Equal(t, -73.0, *west)
	}
	exp := ParseCoordinate("1.5e1x")
	if assert.NotNil(t, exp) {
		assert.Equal(t, 15.0, *exp)
	}
}

func TestStoreInputApply(t *testing.T) {
	lat, lng := 40.0, -73.0
	s := &StoreLocation{ID: "id-1", Shop: "acme", Name: "Old"}
	StoreInput{
		Name:      "Downtown",
		Address:   "1 Main St",
		Latitude:  &lat,
		Longitude: &lng,
		ProductID: OptionalString("gid://shopify/Product/1"),
	}.Apply(s)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, "acme", s.Shop)
	assert.Equal(t, "Downtown", s.Name)
	assert.Equal(t, -73.0, *s.Longitude)
	assert.Nil(t, s.CollectionID)
	assert.Equal(t, "gid://shopify/Product/1", *s.ProductID)
}

func TestStoreLocationJSONKeys(t *testing.T) {
	raw, err := json.Marshal(StoreLocation{ID: "id-1", Shop: "acme", ProductID: OptionalString("gid://shopify/Product/1")})
	if !assert.NoError(t, err) {
		return
	}
	var fields map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "shop", "name", "address", "latitude", "longitude", "productId", "collectionId", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, key)
	}
	assert.NotContains(t, fields, "product_id")
}
