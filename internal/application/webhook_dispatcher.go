package application

import (
	"context"
	"fmt"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes webhook events for the topics it accepts
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to registered handlers
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a new webhook dispatcher
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds a handler; earlier registrations win on overlapping topics
func (d *WebhookDispatcher) RegisterHandler(h WebhookHandler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch hands the event to the first handler accepting its topic.
// Events without a handler are acknowledged.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		if err := h.Handle(ctx, event); err != nil {
			return fmt.Errorf("failed to handle %s: %w", event.Topic, err)
		}
		return nil
	}

	d.logger.Warn().Str("topic", event.Topic).Str("shop", event.Shop).Msg("No handler registered for webhook topic")
	return nil
}
