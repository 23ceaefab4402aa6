package application

import (
	"context"
	"errors"
	"testing"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/infrastructure/encryption"
	"store-locator-shopify-layer/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type fakeVerifier struct {
	shop string
	err  error
}

func (f fakeVerifier) Verify(token string) (string, error) {
	return f.shop, f.err
}

type fakeExchanger struct {
	calls int
	err   error
}

func (f *fakeExchanger) Exchange(ctx context.Context, shop string, sessionToken string) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return "shpat_" + shop, "write_metaobjects", nil
}

func newSessionService(t *testing.T, verifier fakeVerifier, exchanger *fakeExchanger) (*SessionService, *repository.MemoryRepository) {
	t.Helper()
	enc, err := encryption.NewService(testEncryptionKey)
	require.NoError(t, err)
	repo := repository.NewMemoryRepository()
	return NewSessionService(verifier, exchanger, repo, enc, zerolog.Nop()), repo
}

func TestSessionService_AuthenticateExchangesOnce(t *testing.T) {
	exchanger := &fakeExchanger{}
	svc, repo := newSessionService(t, fakeVerifier{shop: "acme"}, exchanger)
	ctx := context.Background()

	session, err := svc.Authenticate(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "acme", session.Shop)
	assert.Equal(t, 1, exchanger.calls)

	stored, err := repo.GetSession(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "shpat_acme", stored.EncryptedAccessToken)

	_, err = svc.Authenticate(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, 1, exchanger.calls)

	token, err := svc.AccessToken(ctx, "acme.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "shpat_acme", token)
}

func TestSessionService_AuthenticateRejectsInvalidToken(t *testing.T) {
	exchanger := &fakeExchanger{}
	svc, _ := newSessionService(t, fakeVerifier{err: errors.New("token is expired")}, exchanger)

	_, err := svc.Authenticate(context.Background(), "jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, exchanger.calls)
}

func TestSessionService_AuthenticateExchangeFailure(t *testing.T) {
	svc, repo := newSessionService(t, fakeVerifier{shop: "acme"}, &fakeExchanger{err: errors.New("invalid_subject_token")})
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "jwt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)

	stored, err := repo.GetSession(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionService_AccessTokenAndRevoke(t *testing.T) {
	svc, _ := newSessionService(t, fakeVerifier{shop: "acme"}, &fakeExchanger{})
	ctx := context.Background()

	_, err := svc.AccessToken(ctx, "acme")
	assert.ErrorIs(t, err, domain.ErrNoSession)

	_, err = svc.Authenticate(ctx, "jwt")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "ACME.myshopify.com"))
	_, err = svc.AccessToken(ctx, "acme")
	assert.ErrorIs(t, err, domain.ErrNoSession)
}
