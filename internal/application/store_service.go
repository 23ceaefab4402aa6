package application

import (
	"context"
	"fmt"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StoreService manages the store directory of a shop
type StoreService struct {
	storeRepo ports.StoreRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStoreService creates a new store directory service
func NewStoreService(storeRepo ports.StoreRepository, logger zerolog.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListForAdmin returns the shop's stores, newest first
func (s *StoreService) ListForAdmin(ctx context.Context, shop string) ([]*domain.StoreLocation, error) {
	return s.list(ctx, shop, ports.OrderByCreatedDesc)
}

// ListForFeed returns the shop's stores ordered by name, as the storefront widget expects
func (s *StoreService) ListForFeed(ctx context.Context, shop string) ([]*domain.StoreLocation, error) {
	return s.list(ctx, shop, ports.OrderByNameAsc)
}

func (s *StoreService) list(ctx context.Context, shop string, order ports.StoreOrder) ([]*domain.StoreLocation, error) {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	stores, err := s.storeRepo.List(ctx, shop, order)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	if stores == nil {
		stores = []*domain.StoreLocation{}
	}
	return stores, nil
}

// Create adds a store location to the shop's directory
func (s *StoreService) Create(ctx context.Context, shop string, input domain.StoreInput) (*domain.StoreLocation, error) {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return nil, domain.ErrMissingShop
	}

	now := s.now()
	store := &domain.StoreLocation{
		ID:        uuid.NewString(),
		Shop:      shop,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(store)

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	s.logger.Info().Str("shop", shop).Str("storeId", store.ID).Msg("Store created")
	return store, nil
}

// Update replaces the mutable fields of a store owned by the shop
func (s *StoreService) Update(ctx context.Context, shop string, id string, input domain.StoreInput) (*domain.StoreLocation, error) {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	if id == "" {
		return nil, domain.ErrNotFound
	}

	store := &domain.StoreLocation{ID: id, Shop: shop, UpdatedAt: s.now()}
	input.Apply(store)

	updated, err := s.storeRepo.Update(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to update store %s: %w", id, err)
	}

	s.logger.Info().Str("shop", shop).Str("storeId", id).Msg("Store updated")
	return updated, nil
}

// Delete removes a store owned by the shop
func (s *StoreService) Delete(ctx context.Context, shop string, id string) error {
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return domain.ErrMissingShop
	}
	if id == "" {
		return domain.ErrNotFound
	}

	if err := s.storeRepo.Delete(ctx, shop, id); err != nil {
		return fmt.Errorf("failed to delete store %s: %w", id, err)
	}

	s.logger.Info().Str("shop", shop).Str("storeId", id).Msg("Store deleted")
	return nil
}

// DeleteAllForShop removes every store of the shop
func (s *StoreService) DeleteAllForShop(ctx context.Context, shop string) error {
	shop = domain.NormalizeShop(shop)
	n, err := s.storeRepo.DeleteAllForShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to delete stores for %s: %w", shop, err)
	}
	s.logger.Info().Str("shop", shop).Int64("deleted", n).Msg("Deleted all stores for shop")
	return nil
}
