// Package portstest provides in-memory implementations of ports for tests.
package portstest

import (
	"context"
	"fmt"
	"sync"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"
)

// Metafields is an in-memory MetafieldStoreProvider keyed by shop.
// Shops without a session get domain.ErrNoSession, like the real provider.
type Metafields struct {
	mu     sync.Mutex
	nextID int

	shops   map[string]bool
	values  map[string]map[string]ports.Metafield // shop -> namespace.key -> metafield
	install map[string]map[string]ports.Metafield

	// Err, when set, fails every remote call
	Err error
	// UserErrors, when set, is returned by every write
	UserErrors []ports.UserError
}

// NewMetafields creates a provider where the given shops have a session
func NewMetafields(shops ...string) *Metafields {
	m := &Metafields{
		shops:   make(map[string]bool),
		values:  make(map[string]map[string]ports.Metafield),
		install: make(map[string]map[string]ports.Metafield),
	}
	for _, shop := range shops {
		m.shops[shop] = true
	}
	return m
}

var _ ports.MetafieldStoreProvider = (*Metafields)(nil)

func fieldKey(namespace, key string) string {
	return namespace + "." + key
}

// Put seeds a shop metafield
func (m *Metafields) Put(shop, namespace, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(m.values, shop, ports.MetafieldInput{Namespace: namespace, Key: key, Type: "single_line_text_field", Value: value})
}

// put upserts into owner, keeping the id of an existing metafield
func (m *Metafields) put(owner map[string]map[string]ports.Metafield, shop string, in ports.MetafieldInput) {
	if owner[shop] == nil {
		owner[shop] = make(map[string]ports.Metafield)
	}
	k := fieldKey(in.Namespace, in.Key)
	mf, ok := owner[shop][k]
	if !ok {
		m.nextID++
		mf.ID = fmt.Sprintf("gid://shopify/Metafield/%d", m.nextID)
	}
	mf.Namespace, mf.Key, mf.Type, mf.Value = in.Namespace, in.Key, in.Type, in.Value
	owner[shop][k] = mf
}

// MintedIDs returns how many metafield ids have been assigned so far
func (m *Metafields) MintedIDs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextID
}

// Value returns a shop metafield value and whether it exists
func (m *Metafields) Value(shop, namespace, key string) (string, bool) {
	mf, ok := m.Metafield(shop, namespace, key)
	return mf.Value, ok
}

// Metafield returns a shop metafield including its id
func (m *Metafields) Metafield(shop, namespace, key string) (ports.Metafield, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mf, ok := m.values[shop][fieldKey(namespace, key)]
	return mf, ok
}

// Installation returns an app-installation metafield
func (m *Metafields) Installation(shop, namespace, key string) (ports.Metafield, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mf, ok := m.install[shop][fieldKey(namespace, key)]
	return mf, ok
}

// ForShop implements ports.MetafieldStoreProvider
func (m *Metafields) ForShop(ctx context.Context, shop string) (ports.MetafieldStore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.shops[shop] {
		return nil, domain.ErrNoSession
	}
	return &shopMetafields{parent: m, shop: shop}, nil
}

type shopMetafields struct {
	parent *Metafields
	shop   string
}

func (s *shopMetafields) GetShopMetafield(ctx context.Context, namespace, key string) (*ports.Metafield, error) {
	m := s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	mf, ok := m.values[s.shop][fieldKey(namespace, key)]
	if !ok {
		return nil, nil
	}
	return &mf, nil
}

func (s *shopMetafields) GetAppInstallationMetafield(ctx context.Context, namespace, key string) (*ports.Metafield, error) {
	m := s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	mf, ok := m.install[s.shop][fieldKey(namespace, key)]
	if !ok {
		return nil, nil
	}
	return &mf, nil
}

func (s *shopMetafields) SetShopMetafields(ctx context.Context, inputs []ports.MetafieldInput) ([]ports.UserError, error) {
	m := s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.UserErrors) > 0 {
		return m.UserErrors, nil
	}
	for _, in := range inputs {
		m.put(m.values, s.shop, in)
	}
	return nil, nil
}

func (s *shopMetafields) SetAppInstallationMetafields(ctx context.Context, inputs []ports.MetafieldInput) ([]ports.UserError, error) {
	m := s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.UserErrors) > 0 {
		return m.UserErrors, nil
	}
	for _, in := range inputs {
		m.put(m.install, s.shop, in)
	}
	return nil, nil
}

func (s *shopMetafields) DeleteMetafield(ctx context.Context, id string) ([]ports.UserError, error) {
	m := s.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, owner := range []map[string]map[string]ports.Metafield{m.values, m.install} {
		for k, mf := range owner[s.shop] {
			if mf.ID == id {
				delete(owner[s.shop], k)
				return nil, nil
			}
		}
	}
	return []ports.UserError{{Field: []string{"id"}, Message: "Metafield not found"}}, nil
}
