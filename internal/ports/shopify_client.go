package ports

import "context"

// Metafield is a platform-owned namespaced key/value pair
type Metafield struct {
	ID        string
	Namespace string
	Key       string
	Type      string
	Value     string
}

// MetafieldInput is one metafield write
type MetafieldInput struct {
	Namespace string
	Key       string
	Type      string
	Value     string
}

// UserError is a validation error reported by the platform for a mutation
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// MetafieldStore is the remote key/value store of a single shop.
// Every call is a live request; nothing is cached.
type MetafieldStore interface {
	// GetShopMetafield returns the shop-owned metafield, or nil when absent
	GetShopMetafield(ctx context.Context, namespace, key string) (*Metafield, error)

	// GetAppInstallationMetafield returns a metafield owned by the current app installation, or nil when absent
	GetAppInstallationMetafield(ctx context.Context, namespace, key string) (*Metafield, error)

	// SetShopMetafields writes metafields owned by the shop
	SetShopMetafields(ctx context.Context, inputs []MetafieldInput) ([]UserError, error)

	// SetAppInstallationMetafields writes metafields owned by the current app installation
	SetAppInstallationMetafields(ctx context.Context, inputs []MetafieldInput) ([]UserError, error)

	// DeleteMetafield removes a metafield by its platform id
	DeleteMetafield(ctx context.Context, id string) ([]UserError, error)
}

// MetafieldStoreProvider resolves the metafield store for a shop from its stored session
type MetafieldStoreProvider interface {
	ForShop(ctx context.Context, shop string) (MetafieldStore, error)
}

// AccessTokenSource returns the decrypted offline access token of a shop
type AccessTokenSource interface {
	AccessToken(ctx context.Context, shop string) (string, error)
}

// TokenExchanger trades a session token for an offline Admin API access token
type TokenExchanger interface {
	Exchange(ctx context.Context, shop string, sessionToken string) (accessToken string, scope string, err error)
}

// SessionTokenVerifier validates a session token and returns the bare shop it was issued for
type SessionTokenVerifier interface {
	Verify(token string) (string, error)
}

// EncryptionService encrypts secrets at rest
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
