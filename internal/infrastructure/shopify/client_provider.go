package shopify

import (
	"context"

	"store-locator-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// ClientProvider builds per-shop metafield clients from stored offline tokens
type ClientProvider struct {
	app    goshopify.App
	tokens ports.AccessTokenSource
	opts   []goshopify.Option
	logger zerolog.Logger
}

// NewClientProvider creates a new client provider
func NewClientProvider(
	apiKey, apiSecret string,
	tokens ports.AccessTokenSource,
	logger zerolog.Logger,
	opts ...goshopify.Option,
) *ClientProvider {
	return &ClientProvider{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
		tokens: tokens,
		opts:   opts,
		logger: logger,
	}
}

// ForShop returns the metafield store of a shop; domain.ErrNoSession when it has no token
func (p *ClientProvider) ForShop(ctx context.Context, shop string) (ports.MetafieldStore, error) {
	token, err := p.tokens.AccessToken(ctx, shop)
	if err != nil {
		return nil, err
	}
	return NewMetafieldClient(p.app, shop, token, p.logger, p.opts...)
}
