package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// SessionRevoker forgets the stored session of a shop
type SessionRevoker interface {
	Revoke(ctx context.Context, shop string) error
}

// AppUninstalledHandler handles app uninstalled webhook events
type AppUninstalledHandler struct {
	logger   zerolog.Logger
	sessions SessionRevoker
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, sessions SessionRevoker) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle drops the offline session. Settings and stores are kept until shop/redact.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := event.Shop
	if shop == "" {
		var shopData struct {
			Domain          string `json:"domain"`
			MyshopifyDomain string `json:"myshopify_domain"`
		}
		if err := json.Unmarshal(event.Payload, &shopData); err != nil {
			return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
		}
		shop = shopData.MyshopifyDomain
		if shop == "" {
			shop = shopData.Domain
		}
	}
	shop = domain.NormalizeShop(shop)
	if shop == "" {
		return fmt.Errorf("app uninstalled webhook without shop")
	}

	if err := h.sessions.Revoke(ctx, shop); err != nil {
		return err
	}

	h.logger.Info().Str("topic", event.Topic).Str("shop", shop).Msg("App uninstalled - session removed")
	return nil
}
