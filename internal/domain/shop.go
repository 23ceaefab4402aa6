package domain

import (
	"context"
	"strings"
)

// ShopDomainSuffix is the platform suffix stripped from incoming shop identifiers
const ShopDomainSuffix = ".myshopify.com"

type contextKey string

const shopContextKey contextKey = "shop"

// NormalizeShop reduces a shop identifier to its bare form.
// "https://Acme.myshopify.com/", "acme.myshopify.com" and "acme" all become "acme".
func NormalizeShop(shop string) string {
	s := strings.ToLower(strings.TrimSpace(shop))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ShopDomainSuffix)
}

// ShopDomain returns the full platform domain for a bare shop name
func ShopDomain(shop string) string {
	shop = NormalizeShop(shop)
	if shop == "" {
		return ""
	}
	return shop + ShopDomainSuffix
}

// WithShop stores the authenticated shop in the context
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, shopContextKey, shop)
}

// GetShopFromContext returns the authenticated shop, or "" when none is set
func GetShopFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(shopContextKey).(string); ok {
		return v
	}
	return ""
}
