package ports

import (
	"context"

	"store-locator-shopify-layer/internal/domain"
)

// SettingsRepository defines the interface for local shop settings persistence
type SettingsRepository interface {
	// GetByShop returns the settings record, or nil when the shop has none
	GetByShop(ctx context.Context, shop string) (*domain.ShopSettings, error)

	// Ensure returns the settings record, creating an empty one if missing
	Ensure(ctx context.Context, shop string) (*domain.ShopSettings, error)

	// SetStoreLocatorURL upserts the locator URL; nil clears it
	SetStoreLocatorURL(ctx context.Context, shop string, url *string) error

	DeleteByShop(ctx context.Context, shop string) error
}

// StoreOrder selects the ordering of a store listing
type StoreOrder int

const (
	// OrderByCreatedDesc lists newest stores first (admin view)
	OrderByCreatedDesc StoreOrder = iota
	// OrderByNameAsc lists stores alphabetically (storefront feed)
	OrderByNameAsc
)

// StoreRepository defines the interface for store location persistence.
// Every method is scoped by shop; rows of other shops are invisible.
type StoreRepository interface {
	List(ctx context.Context, shop string, order StoreOrder) ([]*domain.StoreLocation, error)
	Create(ctx context.Context, store *domain.StoreLocation) error

	// Update replaces the mutable fields and returns the stored row,
	// domain.ErrNotFound when (shop, id) does not match
	Update(ctx context.Context, store *domain.StoreLocation) (*domain.StoreLocation, error)

	// Delete removes the row, domain.ErrNotFound when (shop, id) does not match
	Delete(ctx context.Context, shop string, id string) error

	DeleteAllForShop(ctx context.Context, shop string) (int64, error)
}

// SessionRepository defines the interface for offline session persistence
type SessionRepository interface {
	// GetSession returns the stored session, or nil when none exists
	GetSession(ctx context.Context, shop string) (*domain.Session, error)
	SaveSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, shop string) error
}
