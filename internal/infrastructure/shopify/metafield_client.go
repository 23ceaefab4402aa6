package shopify

import (
	"context"
	"fmt"

	"store-locator-shopify-layer/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

const shopMetafieldQuery = `query shopMetafield($namespace: String!, $key: String!) {
  shop {
    id
    metafield(namespace: $namespace, key: $key) {
      id
      namespace
      key
      type
      value
    }
  }
}`

const shopIDQuery = `query shopId {
  shop {
    id
  }
}`

const appInstallationMetafieldQuery = `query appInstallationMetafield($namespace: String!, $key: String!) {
  currentAppInstallation {
    id
    metafield(namespace: $namespace, key: $key) {
      id
      namespace
      key
      type
      value
    }
  }
}`

const appInstallationIDQuery = `query appInstallationId {
  currentAppInstallation {
    id
  }
}`

const metafieldsSetMutation = `mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const metafieldDeleteMutation = `mutation metafieldDelete($input: MetafieldDeleteInput!) {
  metafieldDelete(input: $input) {
    deletedId
    userErrors {
      field
      message
    }
  }
}`

// MetafieldClient implements ports.MetafieldStore over the Admin GraphQL API of one shop
type MetafieldClient struct {
	client *goshopify.Client
	shop   string
	logger zerolog.Logger
}

// NewMetafieldClient creates a metafield client for a shop and offline access token
func NewMetafieldClient(
	app goshopify.App,
	shop string,
	accessToken string,
	logger zerolog.Logger,
	opts ...goshopify.Option,
) (*MetafieldClient, error) {
	client, err := goshopify.NewClient(app, shop, accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &MetafieldClient{client: client, shop: shop, logger: logger}, nil
}

type metafieldNode struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

type metafieldSetInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	OwnerID   string `json:"ownerId"`
}

// GetShopMetafield returns the shop-owned metafield, or nil when absent
func (c *MetafieldClient) GetShopMetafield(ctx context.Context, namespace, key string) (*ports.Metafield, error) {
	var resp struct {
		Shop struct {
			ID        string         `json:"id"`
			Metafield *metafieldNode `json:"metafield"`
		} `json:"shop"`
	}
	vars := map[string]interface{}{"namespace": namespace, "key": key}
	if err := c.client.GraphQL.Query(ctx, shopMetafieldQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to query metafield %s.%s: %w", namespace, key, err)
	}

	return c.toMetafield(resp.Shop.Metafield, "shop"), nil
}

// GetAppInstallationMetafield returns a metafield owned by the current app installation, or nil when absent
func (c *MetafieldClient) GetAppInstallationMetafield(ctx context.Context, namespace, key string) (*ports.Metafield, error) {
	var resp struct {
		CurrentAppInstallation struct {
			ID        string         `json:"id"`
			Metafield *metafieldNode `json:"metafield"`
		} `json:"currentAppInstallation"`
	}
	vars := map[string]interface{}{"namespace": namespace, "key": key}
	if err := c.client.GraphQL.Query(ctx, appInstallationMetafieldQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to query app installation metafield %s.%s: %w", namespace, key, err)
	}
	return c.toMetafield(resp.CurrentAppInstallation.Metafield, "appInstallation"), nil
}

func (c *MetafieldClient) toMetafield(mf *metafieldNode, owner string) *ports.Metafield {
	if mf == nil {
		return nil
	}

	c.logger.Debug().
		Str("shop", c.shop).
		Str("owner", owner).
		Str("namespace", mf.Namespace).
		Str("key", mf.Key).
		Msg("Metafield found")

	return &ports.Metafield{
		ID:        mf.ID,
		Namespace: mf.Namespace,
		Key:       mf.Key,
		Type:      mf.Type,
		Value:     mf.Value,
	}
}

// SetShopMetafields writes metafields owned by the shop
func (c *MetafieldClient) SetShopMetafields(ctx context.Context, inputs []ports.MetafieldInput) ([]ports.UserError, error) {
	var resp struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}
	if err := c.client.GraphQL.Query(ctx, shopIDQuery, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to query shop id: %w", err)
	}
	if resp.Shop.ID == "" {
		return nil, fmt.Errorf("could not get shop id for %s", c.shop)
	}
	return c.setMetafields(ctx, resp.Shop.ID, inputs)
}

// SetAppInstallationMetafields writes metafields owned by the current app installation
func (c *MetafieldClient) SetAppInstallationMetafields(ctx context.Context, inputs []ports.MetafieldInput) ([]ports.UserError, error) {
	var resp struct {
		CurrentAppInstallation struct {
			ID string `json:"id"`
		} `json:"currentAppInstallation"`
	}
	if err := c.client.GraphQL.Query(ctx, appInstallationIDQuery, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to query app installation id: %w", err)
	}
	if resp.CurrentAppInstallation.ID == "" {
		return nil, fmt.Errorf("could not get app installation id for %s", c.shop)
	}
	return c.setMetafields(ctx, resp.CurrentAppInstallation.ID, inputs)
}

func (c *MetafieldClient) setMetafields(ctx context.Context, ownerID string, inputs []ports.MetafieldInput) ([]ports.UserError, error) {
	metafields := make([]metafieldSetInput, 0, len(inputs))
	for _, in := range inputs {
		metafields = append(metafields, metafieldSetInput{
			Namespace: in.Namespace,
			Key:       in.Key,
			Type:      in.Type,
			Value:     in.Value,
			OwnerID:   ownerID,
		})
	}

	var resp struct {
		MetafieldsSet struct {
			UserErrors []ports.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	vars := map[string]interface{}{"metafields": metafields}
	if err := c.client.GraphQL.Query(ctx, metafieldsSetMutation, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to set metafields: %w", err)
	}

	if len(resp.MetafieldsSet.UserErrors) > 0 {
		c.logger.Warn().
			Str("shop", c.shop).
			Interface("userErrors", resp.MetafieldsSet.UserErrors).
			Msg("metafieldsSet returned user errors")
	}
	return resp.MetafieldsSet.UserErrors, nil
}

// DeleteMetafield removes a metafield by id
func (c *MetafieldClient) DeleteMetafield(ctx context.Context, id string) ([]ports.UserError, error) {
	var resp struct {
		MetafieldDelete struct {
			DeletedID  *string           `json:"deletedId"`
			UserErrors []ports.UserError `json:"userErrors"`
		} `json:"metafieldDelete"`
	}
	vars := map[string]interface{}{"input": map[string]string{"id": id}}
	if err := c.client.GraphQL.Query(ctx, metafieldDeleteMutation, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to delete metafield: %w", err)
	}
	return resp.MetafieldDelete.UserErrors, nil
}
