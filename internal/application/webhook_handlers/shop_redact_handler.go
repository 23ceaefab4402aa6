package webhook_handlers

import (
	"context"
	"errors"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// ShopDataEraser removes one kind of shop data
type ShopDataEraser func(ctx context.Context, shop string) error

// ShopRedactHandler erases all shop data 48 hours after uninstall
type ShopRedactHandler struct {
	logger  zerolog.Logger
	erasers []ShopDataEraser
}

// NewShopRedactHandler creates a new shop/redact webhook handler
func NewShopRedactHandler(logger zerolog.Logger, erasers ...ShopDataEraser) *ShopRedactHandler {
	return &ShopRedactHandler{logger: logger, erasers: erasers}
}

// CanHandle returns true if this handler can process the given topic
func (h *ShopRedactHandler) CanHandle(topic string) bool {
	return topic == "shop/redact"
}

// Handle runs every eraser and reports all failures together
func (h *ShopRedactHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop := domain.NormalizeShop(event.Shop)
	if shop == "" {
		return errors.New("shop/redact webhook without shop")
	}

	var errs []error
	for _, erase := range h.erasers {
		if err := erase(ctx, shop); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	h.logger.Info().Str("shop", shop).Msg("Shop data redacted")
	return nil
}
