package backend

import (
	"context"
	"fmt"
	"net/http"
)

type PaymentClient struct{ c *Client }

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

type paymentURLReq struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"orderInfo"`
}

func (pc *PaymentClient) CreateVNPayURL(ctx context.Context, token, orderID string, amount int64) (string, error) {
	var out struct {
		PaymentURL string `json:"paymentUrl"`
	}
	in := paymentURLReq{OrderID: orderID, Amount: amount, OrderInfo: "Thanh toan don hang " + orderID}
	if err := pc.c.do(ctx, http.MethodPost, "/payment/vnpay/create-payment-url", nil, token, in, &out); err != nil {
		return "", err
	}
	if out.PaymentURL == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "VNPAY payment url missing"}
	}
	return out.PaymentURL, nil
}

func (pc *PaymentClient) CreateMoMoURL(ctx context.Context, token, orderID string, amount int64) (string, error) {
	var out struct {
		PayURL string `json:"payUrl"`
	}
	in := paymentURLReq{OrderID: orderID, Amount: amount, OrderInfo: fmt.Sprintf("Thanh toan don hang %s", orderID)}
	if err := pc.c.do(ctx, http.MethodPost, "/payment/momo/create-payment", nil, token, in, &out); err != nil {
		return "", err
	}
	if out.PayURL == "" {
		return "", &APIError{Status: http.StatusBadGateway, Message: "MoMo payment url missing"}
	}
	return out.PayURL, nil
}
