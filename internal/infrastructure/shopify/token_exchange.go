package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

const (
	tokenExchangeGrantType   = "urn:ietf:params:oauth:grant-type:token-exchange"
	idTokenType              = "urn:ietf:params:oauth:token-type:id_token"
	offlineAccessTokenType   = "urn:shopify:params:oauth:token-type:offline-access-token"
	defaultTokenEndpointTmpl = "https://%s/admin/oauth/access_token"
)

// TokenExchanger trades App Bridge session tokens for offline access tokens
type TokenExchanger struct {
	apiKey       string
	apiSecret    string
	httpClient   *http.Client
	endpointTmpl string // fmt template receiving the full shop domain
	logger       zerolog.Logger
}

// NewTokenExchanger creates a token exchanger against the platform OAuth endpoint
func NewTokenExchanger(apiKey, apiSecret string, logger zerolog.Logger) *TokenExchanger {
	return &TokenExchanger{
		apiKey:       apiKey,
		apiSecret:    apiSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		endpointTmpl: defaultTokenEndpointTmpl,
		logger:       logger,
	}
}

// Exchange performs the token exchange grant for an offline token
func (e *TokenExchanger) Exchange(ctx context.Context, shop string, sessionToken string) (string, string, error) {
	tokenURL := fmt.Sprintf(e.endpointTmpl, domain.ShopDomain(shop))

	values := url.Values{}
	values.Set("client_id", e.apiKey)
	values.Set("client_secret", e.apiSecret)
	values.Set("grant_type", tokenExchangeGrantType)
	values.Set("subject_token", sessionToken)
	values.Set("subject_token_type", idTokenType)
	values.Set("requested_token_type", offlineAccessTokenType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(values.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("failed to exchange token: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResponse.AccessToken == "" {
		return "", "", fmt.Errorf("failed to exchange token: empty access token")
	}

	e.logger.Info().
		Str("shop", shop).
		Str("scope", tokenResponse.Scope).
		Msg("Exchanged session token for offline access token")

	return tokenResponse.AccessToken, tokenResponse.Scope, nil
}
