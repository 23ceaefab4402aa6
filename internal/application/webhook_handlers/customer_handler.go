package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// CustomerPrivacyHandler acknowledges the mandatory customer privacy webhooks.
// The app stores no customer data, so there is nothing to export or erase.
type CustomerPrivacyHandler struct {
	logger zerolog.Logger
}

// NewCustomerPrivacyHandler creates a new customer privacy webhook handler
func NewCustomerPrivacyHandler(logger zerolog.Logger) *CustomerPrivacyHandler {
	return &CustomerPrivacyHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *CustomerPrivacyHandler) CanHandle(topic string) bool {
	return topic == "customers/redact" || topic == "customers/data_request"
}

// Handle logs the request
func (h *CustomerPrivacyHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload struct {
		Customer struct {
			ID float64 `json:"id"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse customer privacy webhook payload: %w", err)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Float64("customerId", payload.Customer.ID).
		Msg("Customer privacy request acknowledged, no customer data held")
	return nil
}
