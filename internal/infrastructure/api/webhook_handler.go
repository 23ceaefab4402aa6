package api

import (
	"io"
	"net/http"

	"store-locator-shopify-layer/internal/application"
	"store-locator-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

const maxWebhookBody = 1 << 20

// SignatureVerifier checks the HMAC header of a webhook payload
type SignatureVerifier interface {
	Verify(payload []byte, hmacHeader string) error
}

// WebhookHandler receives Shopify webhooks and hands them to the dispatcher
type WebhookHandler struct {
	verifier   SignatureVerifier
	dispatcher *application.WebhookDispatcher
	logger     zerolog.Logger
}

// NewWebhookHandler creates the webhook endpoint handler
func NewWebhookHandler(verifier SignatureVerifier, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, logger: logger}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topic := r.Header.Get("X-Shopify-Topic")
	if topic == "" {
		h.logger.Warn().Msg("Missing X-Shopify-Topic header")
		http.Error(w, "Missing X-Shopify-Topic header", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read webhook payload")
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.verifier.Verify(payload, r.Header.Get("X-Shopify-Hmac-Sha256")); err != nil {
		h.logger.Warn().Err(err).Str("topic", topic).Msg("Webhook signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event := &domain.WebhookEvent{
		Topic:   topic,
		Shop:    domain.NormalizeShop(r.Header.Get("X-Shopify-Shop-Domain")),
		Payload: payload,
	}

	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error().Err(err).Str("topic", topic).Str("shop", event.Shop).Msg("Failed to dispatch webhook event")
		// 500 makes Shopify retry
		http.Error(w, "Failed to process webhook event", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, map[string]string{"received": "true"})
}
