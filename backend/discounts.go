package backend

import (
	"context"
	"encoding/json"
	"net/http"
)

type DiscountClient struct{ c *Client }

func NewDiscountClient(c *Client) *DiscountClient { return &DiscountClient{c: c} }

// Validate checks code against the current subtotal; the backend computes the amount.
func (dc *DiscountClient) Validate(ctx context.Context, token, code string, subtotal int64) (Discount, error) {
	var d Discount
	in := map[string]any{"code": code, "orderTotal": subtotal}
	err := dc.c.do(ctx, http.MethodPost, "/discounts/validate", nil, token, in, &d)
	return d, err
}

func (dc *DiscountClient) ListPublic(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := dc.c.do(ctx, http.MethodGet, "/discounts/public", nil, "", nil, &raw)
	return raw, err
}
