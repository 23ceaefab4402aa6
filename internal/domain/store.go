package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StoreLocation is one physical location shown by the storefront widget
type StoreLocation struct {
	ID           string    `json:"id"`
	Shop         string    `json:"shop"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ProductID    *string   `json:"productId"`    // gid://shopify/Product/...
	CollectionID *string   `json:"collectionId"` // gid://shopify/Collection/...
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StoreInput holds the mutable fields of a store location after coercion
type StoreInput struct {
	Name         string
	Address      string
	Latitude     *float64
	Longitude    *float64
	ProductID    *string
	CollectionID *string
}

// Apply copies the mutable fields onto a store location
func (in StoreInput) Apply(s *StoreLocation) {
	s.Name = in.Name
	s.Address = in.Address
	s.Latitude = in.Latitude
	s.Longitude = in.Longitude
	s.ProductID = in.ProductID
	s.CollectionID = in.CollectionID
}

var coordinatePrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseCoordinate parses the leading decimal number of a coordinate form
// value, so "40.5abc" reads as 40.5. Values without a numeric prefix and
// non-finite values yield nil; range is not checked.
func ParseCoordinate(raw string) *float64 {
	prefix := coordinatePrefix.FindString(strings.TrimSpace(raw))
	if prefix == "" {
		return nil
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// OptionalString returns nil for an empty string
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
