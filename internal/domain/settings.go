package domain

import (
	"strings"
	"time"
)

// ShopSettings is the locally persisted settings record, one per shop
type ShopSettings struct {
	ID              string    `json:"id"`
	Shop            string    `json:"shop"`
	StoreLocatorURL *string   `json:"storeLocatorUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EffectiveSettings is what a caller sees after the fallback chain has been applied
type EffectiveSettings struct {
	GoogleMapsAPIKey *string `json:"googleMapsApiKey"`
	StoreLocatorURL  *string `json:"storeLocatorUrl"`
}

// IsEmpty reports whether neither field resolved to a value
func (s EffectiveSettings) IsEmpty() bool {
	return s.GoogleMapsAPIKey == nil && s.StoreLocatorURL == nil
}

// UpdateSettingsInput carries a partial settings update.
// A nil field is left untouched; a non-nil field is written even when empty.
type UpdateSettingsInput struct {
	StoreLocatorURL  *string `json:"storeLocatorUrl"`
	GoogleMapsAPIKey *string `json:"googleMapsApiKey"`
}

// Defaults holds deployment-level fallbacks handed to the settings resolver at start
type Defaults struct {
	AppURL            string
	DefaultLocatorURL string // may contain a {shop} placeholder
}

// LocatorURLFor expands the default locator URL for a shop, nil when none is configured
func (d Defaults) LocatorURLFor(shop string) *string {
	if d.DefaultLocatorURL == "" {
		return nil
	}
	u := strings.ReplaceAll(d.DefaultLocatorURL, "{shop}", NormalizeShop(shop))
	return &u
}
