package shopify

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"store-locator-shopify-layer/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims are the claims carried by an App Bridge session token
type sessionClaims struct {
	Dest string `json:"dest"`
	Sid  string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokenVerifier validates HS256 session tokens signed with the app secret
type SessionTokenVerifier struct {
	apiKey    string
	apiSecret []byte
	leeway    time.Duration
}

// NewSessionTokenVerifier creates a verifier for the app's credentials
func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		leeway:    5 * time.Second,
	}
}

// Verify checks signature, audience and validity window and returns the bare shop name
func (v *SessionTokenVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", errors.New("empty session token")
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.apiSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.apiKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return "", fmt.Errorf("invalid session token: bad dest claim %q", claims.Dest)
	}
	if claims.Issuer != "" {
		iss, err := url.Parse(claims.Issuer)
		if err != nil || iss.Host != dest.Host {
			return "", errors.New("invalid session token: issuer does not match dest")
		}
	}

	shop := domain.NormalizeShop(dest.Host)
	if shop == "" {
		return "", errors.New("invalid session token: no shop")
	}
	return shop, nil
}
