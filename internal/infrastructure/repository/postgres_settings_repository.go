package repository

import (
	"context"
	"database/sql"
	"fmt"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/google/uuid"
)

// PostgresSettingsRepository implements SettingsRepository on database/sql + lib/pq
type PostgresSettingsRepository struct {
	db *sql.DB
}

// NewPostgresSettingsRepository creates a new Postgres settings repository
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

var _ ports.SettingsRepository = (*PostgresSettingsRepository)(nil)

const settingsColumns = `id, shop, store_locator_url, created_at, updated_at`

func scanSettings(scan func(...interface{}) error) (*domain.ShopSettings, error) {
	s := &domain.ShopSettings{}
	if err := scan(&s.ID, &s.Shop, &s.StoreLocatorURL, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByShop retrieves the settings of a shop
func (r *PostgresSettingsRepository) GetByShop(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM shop_settings WHERE shop = $1`, shop)
	s, err := scanSettings(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Ensure retrieves the settings of a shop, inserting an empty record if missing
func (r *PostgresSettingsRepository) Ensure(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	// the no-op update makes RETURNING yield the existing row on conflict
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO shop_settings (id, shop) VALUES ($1, $2)
		ON CONFLICT (shop) DO UPDATE SET shop = EXCLUDED.shop
		RETURNING `+settingsColumns, uuid.NewString(), shop)
	s, err := scanSettings(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure settings: %w", err)
	}
	return s, nil
}

// SetStoreLocatorURL upserts the locator URL of a shop
func (r *PostgresSettingsRepository) SetStoreLocatorURL(ctx context.Context, shop string, url *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shop_settings (id, shop, store_locator_url) VALUES ($1, $2, $3)
		ON CONFLICT (shop) DO UPDATE SET store_locator_url = EXCLUDED.store_locator_url, updated_at = now()`,
		uuid.NewString(), shop, url)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// DeleteByShop removes the settings of a shop
func (r *PostgresSettingsRepository) DeleteByShop(ctx context.Context, shop string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shop_settings WHERE shop = $1`, shop); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
