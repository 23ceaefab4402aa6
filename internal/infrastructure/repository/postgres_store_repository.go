package repository

import (
	"context"
	"database/sql"
	"fmt"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"
)

// PostgresStoreRepository implements StoreRepository on database/sql + lib/pq
type PostgresStoreRepository struct {
	db *sql.DB
}

// NewPostgresStoreRepository creates a new Postgres store repository
func NewPostgresStoreRepository(db *sql.DB) *PostgresStoreRepository {
	return &PostgresStoreRepository{db: db}
}

var _ ports.StoreRepository = (*PostgresStoreRepository)(nil)

const storeColumns = `id, shop, name, address, latitude, longitude, product_id, collection_id, created_at, updated_at`

func scanStore(scan func(...interface{}) error) (*domain.StoreLocation, error) {
	s := &domain.StoreLocation{}
	err := scan(&s.ID, &s.Shop, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
		&s.ProductID, &s.CollectionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves the stores of a shop in the requested order
func (r *PostgresStoreRepository) List(ctx context.Context, shop string, order ports.StoreOrder) ([]*domain.StoreLocation, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE shop = $1`
	if order == ports.OrderByNameAsc {
		query += ` ORDER BY name ASC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	stores := []*domain.StoreLocation{}
	for rows.Next() {
		s, err := scanStore(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

// Create inserts a new store
func (r *PostgresStoreRepository) Create(ctx context.Context, s *domain.StoreLocation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (`+storeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		s.ID, s.Shop, s.Name, s.Address, s.Latitude, s.Longitude,
		s.ProductID, s.CollectionID, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a store owned by the shop
func (r *PostgresStoreRepository) Update(ctx context.Context, s *domain.StoreLocation) (*domain.StoreLocation, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE stores
		SET name=$3, address=$4, latitude=$5, longitude=$6, product_id=$7, collection_id=$8, updated_at=$9
		WHERE id=$1 AND shop=$2
		RETURNING `+storeColumns,
		s.ID, s.Shop, s.Name, s.Address, s.Latitude, s.Longitude,
		s.ProductID, s.CollectionID, s.UpdatedAt)
	updated, err := scanStore(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return updated, nil
}

// Delete removes a store owned by the shop
func (r *PostgresStoreRepository) Delete(ctx context.Context, shop string, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id=$1 AND shop=$2`, id, shop)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAllForShop removes every store of the shop
func (r *PostgresStoreRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE shop=$1`, shop)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stores: %w", err)
	}
	return res.RowsAffected()
}
