package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookVerifier(t *testing.T) {
	v := NewWebhookVerifier("hush")
	payload := []byte(`{"domain":"acme.myshopify.com"}`)
	sig := v.Sign(payload)

	assert.NoError(t, v.Verify(payload, sig))
	assert.Error(t, v.Verify(payload, ""))
	assert.Error(t, v.Verify(payload, "%%%"))
	assert.Error(t, v.Verify([]byte(`{"domain":"evil"}`), sig))
	assert.Error(t, NewWebhookVerifier("other").Verify(payload, sig))
}
