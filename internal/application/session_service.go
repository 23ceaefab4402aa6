package application

import (
	"context"
	"fmt"
	"time"

	"store-locator-shopify-layer/internal/domain"
	"store-locator-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SessionService authenticates admin requests and owns the shop's offline access token
type SessionService struct {
	verifier      ports.SessionTokenVerifier
	exchanger     ports.TokenExchanger
	sessionRepo   ports.SessionRepository
	encryptionSvc ports.EncryptionService
	logger        zerolog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	verifier ports.SessionTokenVerifier,
	exchanger ports.TokenExchanger,
	sessionRepo ports.SessionRepository,
	encryptionSvc ports.EncryptionService,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		verifier:      verifier,
		exchanger:     exchanger,
		sessionRepo:   sessionRepo,
		encryptionSvc: encryptionSvc,
		logger:        logger,
	}
}

// Authenticate verifies a session token and returns the shop's session.
// On first contact the token is exchanged for an offline access token and stored.
func (s *SessionService) Authenticate(ctx context.Context, sessionToken string) (*domain.Session, error) {
	shop, err := s.verifier.Verify(sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	session, err := s.sessionRepo.GetSession(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session != nil {
		return session, nil
	}

	accessToken, scope, err := s.exchanger.Exchange(ctx, shop, sessionToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange session token")
		return nil, fmt.Errorf("failed to exchange session token: %w", err)
	}

	encrypted, err := s.encryptionSvc.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	session = &domain.Session{
		Shop:                 shop,
		EncryptedAccessToken: encrypted,
		Scope:                scope,
		CreatedAt:            time.Now().UTC(),
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info().Str("shop", shop).Str("scope", scope).Msg("Stored offline session")
	return session, nil
}

// AccessToken returns the decrypted offline token, domain.ErrNoSession when none is stored
func (s *SessionService) AccessToken(ctx context.Context, shop string) (string, error) {
	shop = domain.NormalizeShop(shop)
	session, err := s.sessionRepo.GetSession(ctx, shop)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return "", domain.ErrNoSession
	}

	token, err := s.encryptionSvc.Decrypt(session.EncryptedAccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return token, nil
}

// Revoke forgets the shop's session
func (s *SessionService) Revoke(ctx context.Context, shop string) error {
	shop = domain.NormalizeShop(shop)
	if err := s.sessionRepo.DeleteSession(ctx, shop); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info().Str("shop", shop).Msg("Session revoked")
	return nil
}
