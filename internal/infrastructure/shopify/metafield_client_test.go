package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"store-locator-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewriteTransport sends every request to the test server regardless of shop host
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeAdmin answers GraphQL operations by name
func fakeAdmin(t *testing.T, answers map[string]string, seen *[]graphQLRequest) *MetafieldClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/graphql.json"), r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*seen = append(*seen, req)

		for op, body := range answers {
			if strings.Contains(req.Query, op) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
				return
			}
		}
		t.Errorf("unexpected query: %s", req.Query)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c, err := NewMetafieldClient(
		goshopify.App{ApiKey: "api-key", ApiSecret: "secret"},
		"acme",
		"shpat_test",
		zerolog.Nop(),
		goshopify.WithHTTPClient(&http.Client{Transport: rewriteTransport{target: target}}),
	)
	require.NoError(t, err)
	return c
}

func TestMetafieldClient_GetShopMetafield(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"shopMetafield": `{"data":{"shop":{"id":"gid://shopify/Shop/1","metafield":{"id":"gid://shopify/Metafield/9","namespace":"store_locator","key":"google_maps_api_key","type":"single_line_text_field","value":"AIzaTest"}}}}`,
	}, &seen)

	mf, err := c.GetShopMetafield(context.Background(), "store_locator", "google_maps_api_key")
	require.NoError(t, err)
	require.NotNil(t, mf)
	assert.Equal(t, "gid://shopify/Metafield/9", mf.ID)
	assert.Equal(t, "AIzaTest", mf.Value)

	require.Len(t, seen, 1)
	assert.Equal(t, "store_locator", seen[0].Variables["namespace"])
	assert.Equal(t, "google_maps_api_key", seen[0].Variables["key"])
}

func TestMetafieldClient_GetShopMetafieldAbsent(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"shopMetafield": `{"data":{"shop":{"id":"gid://shopify/Shop/1","metafield":null}}}`,
	}, &seen)

	mf, err := c.GetShopMetafield(context.Background(), "store_locator", "google_maps_api_key")
	require.NoError(t, err)
	assert.Nil(t, mf)
}

func TestMetafieldClient_SetShopMetafields(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"shopId":        `{"data":{"shop":{"id":"gid://shopify/Shop/1"}}}`,
		"metafieldsSet": `{"data":{"metafieldsSet":{"metafields":[{"id":"gid://shopify/Metafield/9"}],"userErrors":[]}}}`,
	}, &seen)

	userErrors, err := c.SetShopMetafields(context.Background(), []ports.MetafieldInput{{
		Namespace: "store_locator",
		Key:       "google_maps_api_key",
		Type:      "single_line_text_field",
		Value:     "AIzaTest",
	}})
	require.NoError(t, err)
	assert.Empty(t, userErrors)

	require.Len(t, seen, 2)
	metafields, ok := seen[1].Variables["metafields"].([]interface{})
	require.True(t, ok)
	require.Len(t, metafields, 1)
	first := metafields[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/Shop/1", first["ownerId"])
	assert.Equal(t, "AIzaTest", first["value"])
}

func TestMetafieldClient_SetAppInstallationMetafieldsUserErrors(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"appInstallationId": `{"data":{"currentAppInstallation":{"id":"gid://shopify/AppInstallation/7"}}}`,
		"metafieldsSet":     `{"data":{"metafieldsSet":{"metafields":[],"userErrors":[{"field":["metafields","0","value"],"message":"Value is invalid"}]}}}`,
	}, &seen)

	userErrors, err := c.SetAppInstallationMetafields(context.Background(), []ports.MetafieldInput{{
		Namespace: "app", Key: "store_locator_url", Type: "url", Value: "not a url",
	}})
	require.NoError(t, err)
	require.Len(t, userErrors, 1)
	assert.Equal(t, "Value is invalid", userErrors[0].Message)
}

func TestMetafieldClient_DeleteMetafield(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"metafieldDelete": `{"data":{"metafieldDelete":{"deletedId":"gid://shopify/Metafield/9","userErrors":[]}}}`,
	}, &seen)

	userErrors, err := c.DeleteMetafield(context.Background(), "gid://shopify/Metafield/9")
	require.NoError(t, err)
	assert.Empty(t, userErrors)

	require.Len(t, seen, 1)
	input := seen[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "gid://shopify/Metafield/9", input["id"])
}

func TestMetafieldClient_GetAppInstallationMetafield(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"appInstallationMetafield": `{"data":{"currentAppInstallation":{"id":"gid://shopify/AppInstallation/7","metafield":{"id":"gid://shopify/Metafield/12","namespace":"app","key":"google_maps_api_key","type":"single_line_text_field","value":"AIzaOld"}}}}`,
	}, &seen)

	mf, err := c.GetAppInstallationMetafield(context.Background(), "app", "google_maps_api_key")
	require.NoError(t, err)
	require.NotNil(t, mf)
	assert.Equal(t, "gid://shopify/Metafield/12", mf.ID)
	assert.Equal(t, "AIzaOld", mf.Value)

	require.Len(t, seen, 1)
	assert.Contains(t, seen[0].Query, "currentAppInstallation")
	assert.Equal(t, "app", seen[0].Variables["namespace"])
}

func TestMetafieldClient_GetAppInstallationMetafieldAbsent(t *testing.T) {
	var seen []graphQLRequest
	c := fakeAdmin(t, map[string]string{
		"appInstallationMetafield": `{"data":{"currentAppInstallation":{"id":"gid://shopify/AppInstallation/7","metafield":null}}}`,
	}, &seen)

	mf, err := c.GetAppInstallationMetafield(context.Background(), "app", "google_maps_api_key")
	require.NoError(t, err)
	assert.Nil(t, mf)
}
