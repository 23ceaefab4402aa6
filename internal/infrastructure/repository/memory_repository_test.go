package repository

import (
	"context"
	"testing"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryRepository_StoresAreScopedByShop(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "1", Shop: "acme", Name: "Downtown", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "2", Shop: "other", Name: "Uptown", CreatedAt: now}))

	stores, err := repo.List(ctx, "acme", ports.OrderByCreatedDesc)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Downtown", stores[0].Name)

	_, err = repo.Update(ctx, &domain.StoreLocation{ID: "2", Shop: "acme", Name: "Hijack"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "acme", "2"), domain.ErrNotFound)

	others, err := repo.List(ctx, "other", ports.OrderByNameAsc)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Uptown", others[0].Name)
}

func TestMemoryRepository_ListOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "a", Shop: "acme", Name: "Charlie", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "b", Shop: "acme", Name: "Alpha", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "c", Shop: "acme", Name: "Bravo", CreatedAt: base.Add(2 * time.Hour)}))

	byName, err := repo.List(ctx, "acme", ports.OrderByNameAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, names(byName))

	byCreated, err := repo.List(ctx, "acme", ports.OrderByCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"}, names(byCreated))
}

func names(stores []*domain.StoreLocation) []string {
	out := make([]string, 0, len(stores))
	for _, s := range stores {
		out = append(out, s.Name)
	}
	return out
}

func TestMemoryRepository_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{
		ID: "1", Shop: "acme", Name: "Old", Latitude: ptr(1.0), CreatedAt: created, UpdatedAt: created,
	}))

	updated, err := repo.Update(ctx, &domain.StoreLocation{
		ID: "1", Shop: "acme", Name: "New", UpdatedAt: created.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Nil(t, updated.Latitude)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), updated.UpdatedAt)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	store := &domain.StoreLocation{ID: "1", Shop: "acme", Name: "Downtown", Latitude: ptr(40.7)}
	require.NoError(t, repo.Create(ctx, store))
	*store.Latitude = 0

	stores, err := repo.List(ctx, "acme", ports.OrderByNameAsc)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, 40.7, *stores[0].Latitude)
}

func TestMemoryRepository_DeleteAllForShop(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "1", Shop: "acme"}))
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "2", Shop: "acme"}))
	require.NoError(t, repo.Create(ctx, &domain.StoreLocation{ID: "3", Shop: "other"}))

	n, err := repo.DeleteAllForShop(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.List(ctx, "acme", ports.OrderByNameAsc)
	require.NoError(t, err)
	assert.Empty(t, left)

	others, err := repo.List(ctx, "other", ports.OrderByNameAsc)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestMemoryRepository_Settings(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s, err := repo.GetByShop(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, s)

	ensured, err := repo.Ensure(ctx, "acme")
	require.NoError(t, err)
	assert.NotEmpty(t, ensured.ID)
	assert.Nil(t, ensured.StoreLocatorURL)

	again, err := repo.Ensure(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, ensured.ID, again.ID)

	require.NoError(t, repo.SetStoreLocatorURL(ctx, "acme", ptr("https://acme.example/stores")))
	s, err = repo.GetByShop(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, s.StoreLocatorURL)
	assert.Equal(t, "https://acme.example/stores", *s.StoreLocatorURL)
	assert.Equal(t, ensured.ID, s.ID)

	require.NoError(t, repo.SetStoreLocatorURL(ctx, "acme", nil))
	s, err = repo.GetByShop(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, s.StoreLocatorURL)

	require.NoError(t, repo.DeleteByShop(ctx, "acme"))
	s, err = repo.GetByShop(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMemoryRepository_Sessions(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	s, err := repo.GetSession(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, repo.SaveSession(ctx, &domain.Session{Shop: "acme", EncryptedAccessToken: "enc", Scope: "read_products"}))
	s, err = repo.GetSession(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "enc", s.EncryptedAccessToken)

	require.NoError(t, repo.DeleteSession(ctx, "acme"))
	s, err = repo.GetSession(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewStores_Memory(t *testing.T) {
	stores, err := NewStores(context.Background(), FactoryConfig{StorageBackend: "Memory", SessionBackend: "memory"})
	require.NoError(t, err)
	assert.NotNil(t, stores.Settings)
	assert.NotNil(t, stores.Stores)
	assert.NotNil(t, stores.Sessions)
	assert.NoError(t, stores.Close(context.Background()))
}

func TestNewStores_UnknownBackend(t *testing.T) {
	_, err := NewStores(context.Background(), FactoryConfig{StorageBackend: "sqlite"})
	assert.Error(t, err)

	_, err = NewStores(context.Background(), FactoryConfig{StorageBackend: "memory", SessionBackend: "file"})
	assert.Error(t, err)

	_, err = NewStores(context.Background(), FactoryConfig{StorageBackend: "postgres"})
	assert.Error(t, err)
}
