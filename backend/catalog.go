package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListProducts(ctx context.Context, query url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	err := cc.c.do(ctx, http.MethodGet, "/products", query, "", nil, &raw)
	return raw, err
}

func (cc *CatalogClient) ListCategories(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := cc.c.do(ctx, http.MethodGet, "/categories", nil, "", nil, &raw)
	return raw, err
}
