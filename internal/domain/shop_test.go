package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShop(t *testing.T) {
	cases := map[string]string{
		"foo":                        "foo",
		"foo.myshopify.com":          "foo",
		"  Foo.MyShopify.com ":       "foo",
		"https://foo.myshopify.com/": "foo",
		"":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeShop(in), "input %q", in)
	}
}

func TestShopDomain(t *testing.T) {
	assert.Equal(t, "foo.myshopify.com", ShopDomain("foo"))
	assert.Equal(t, "foo.myshopify.com", ShopDomain("foo.myshopify.com"))
	assert.Equal(t, "", ShopDomain(""))
}

func TestShopContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetShopFromContext(ctx))
	assert.Equal(t, "acme", GetShopFromContext(WithShop(ctx, "acme")))
}

func TestDefaultsLocatorURLFor(t *testing.T) {
	d := Defaults{DefaultLocatorURL: "https://{shop}.myshopify.com/pages/store-locator"}
	got := d.LocatorURLFor("acme.myshopify.com")
	if assert.NotNil(t, got) {
		assert.Equal(t, "https://acme.myshopify.com/pages/store-locator", *got)
	}
	assert.Nil(t, Defaults{}.LocatorURLFor("acme"))
}
