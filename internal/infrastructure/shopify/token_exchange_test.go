package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExchanger_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme.myshopify.com/admin/oauth/access_token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "api-key", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, tokenExchangeGrantType, r.PostForm.Get("grant_type"))
		assert.Equal(t, "session-jwt", r.PostForm.Get("subject_token"))
		assert.Equal(t, offlineAccessTokenType, r.PostForm.Get("requested_token_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"shpat_123","scope":"read_products,write_metaobjects"}`))
	}))
	defer srv.Close()

	e := NewTokenExchanger("api-key", "secret", zerolog.Nop())
	e.endpointTmpl = srv.URL + "/%s/admin/oauth/access_token"

	token, scope, err := e.Exchange(context.Background(), "acme", "session-jwt")
	require.NoError(t, err)
	assert.Equal(t, "shpat_123", token)
	assert.Equal(t, "read_products,write_metaobjects", scope)
}

func TestTokenExchanger_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_subject_token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	e := NewTokenExchanger("api-key", "secret", zerolog.Nop())
	e.endpointTmpl = srv.URL + "/%s"

	_, _, err := e.Exchange(context.Background(), "acme", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
