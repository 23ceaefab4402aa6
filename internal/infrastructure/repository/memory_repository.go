package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/google/uuid"
)

// MemoryRepository keeps settings, stores and sessions in process memory.
// Used for local development and tests.
type MemoryRepository struct {
	mu sync.RWMutex

	settings map[string]domain.ShopSettings             // shop -> record
	stores   map[string]map[string]domain.StoreLocation // shop -> id -> store
	sessions map[string]domain.Session                  // shop -> session
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		settings: make(map[string]domain.ShopSettings),
		stores:   make(map[string]map[string]domain.StoreLocation),
		sessions: make(map[string]domain.Session),
	}
}

var (
	_ ports.SettingsRepository = (*MemoryRepository)(nil)
	_ ports.StoreRepository    = (*MemoryRepository)(nil)
	_ ports.SessionRepository  = (*MemoryRepository)(nil)
)

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func copySettings(s domain.ShopSettings) *domain.ShopSettings {
	s.StoreLocatorURL = copyString(s.StoreLocatorURL)
	return &s
}

func copyStore(s domain.StoreLocation) *domain.StoreLocation {
	s.Latitude = copyFloat(s.Latitude)
	s.Longitude = copyFloat(s.Longitude)
	s.ProductID = copyString(s.ProductID)
	s.CollectionID = copyString(s.CollectionID)
	return &s
}

// GetByShop retrieves the settings of a shop
func (r *MemoryRepository) GetByShop(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[shop]
	if !ok {
		return nil, nil
	}
	return copySettings(s), nil
}

// Ensure retrieves the settings of a shop, inserting an empty record if missing
func (r *MemoryRepository) Ensure(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[shop]
	if !ok {
		now := time.Now().UTC()
		s = domain.ShopSettings{ID: uuid.NewString(), Shop: shop, CreatedAt: now, UpdatedAt: now}
		r.settings[shop] = s
	}
	return copySettings(s), nil
}

// SetStoreLocatorURL upserts the locator URL of a shop
func (r *MemoryRepository) SetStoreLocatorURL(ctx context.Context, shop string, url *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	s, ok := r.settings[shop]
	if !ok {
		s = domain.ShopSettings{ID: uuid.NewString(), Shop: shop, CreatedAt: now}
	}
	s.StoreLocatorURL = copyString(url)
	s.UpdatedAt = now
	r.settings[shop] = s
	return nil
}

// DeleteByShop removes the settings of a shop
func (r *MemoryRepository) DeleteByShop(ctx context.Context, shop string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.settings, shop)
	return nil
}

// List retrieves the stores of a shop in the requested order
func (r *MemoryRepository) List(ctx context.Context, shop string, order ports.StoreOrder) ([]*domain.StoreLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.StoreLocation, 0, len(r.stores[shop]))
	for _, s := range r.stores[shop] {
		out = append(out, copyStore(s))
	}

	if order == ports.OrderByNameAsc {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Name == out[j].Name {
				return out[i].ID < out[j].ID
			}
			return out[i].Name < out[j].Name
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].ID < out[j].ID
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

// Create inserts a new store
func (r *MemoryRepository) Create(ctx context.Context, store *domain.StoreLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.stores[store.Shop]
	if !ok {
		m = make(map[string]domain.StoreLocation)
		r.stores[store.Shop] = m
	}
	m[store.ID] = *copyStore(*store)
	return nil
}

// Update replaces the mutable fields of a store owned by the shop
func (r *MemoryRepository) Update(ctx context.Context, store *domain.StoreLocation) (*domain.StoreLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.stores[store.Shop][store.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	updated := *copyStore(*store)
	updated.CreatedAt = existing.CreatedAt
	r.stores[store.Shop][store.ID] = updated
	return copyStore(updated), nil
}

// Delete removes a store owned by the shop
func (r *MemoryRepository) Delete(ctx context.Context, shop string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[shop][id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.stores[shop], id)
	return nil
}

// DeleteAllForShop removes every store of the shop
func (r *MemoryRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.stores[shop]))
	delete(r.stores, shop)
	return n, nil
}

// GetSession retrieves the offline session of a shop
func (r *MemoryRepository) GetSession(ctx context.Context, shop string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[shop]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// SaveSession stores the offline session of a shop
func (r *MemoryRepository) SaveSession(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.Shop] = *session
	return nil
}

// DeleteSession removes the offline session of a shop
func (r *MemoryRepository) DeleteSession(ctx context.Context, shop string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, shop)
	return nil
}
