package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront-service/model"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (oc *OrderClient) Create(ctx context.Context, token string, draft model.DraftOrder) (CreatedOrder, error) {
	var created CreatedOrder
	err := oc.c.do(ctx, http.MethodPost, "/orders", nil, token, draft, &created)
	return created, err
}

func (oc *OrderClient) ListMine(ctx context.Context, token string, page, limit int, status string) (OrderPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if status != "" {
		q.Set("status", status)
	}

	var p OrderPage
	err := oc.c.do(ctx, http.MethodGet, "/orders/my-orders", q, token, nil, &p)
	return p, err
}

func (oc *OrderClient) Get(ctx context.Context, token, orderID string) (Order, error) {
	var o Order
	err := oc.c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, token, nil, &o)
	return o, err
}
