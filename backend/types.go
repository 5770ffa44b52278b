package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexID accepts ids the backend sends either as JSON numbers or strings.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

type Discount struct {
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// IsPercent reports whether the backend describes a percentage discount.
func (d Discount) IsPercent() bool {
	switch strings.ToLower(d.Type) {
	case "percent", "percentage":
		return true
	}
	return false
}

type CreatedOrder struct {
	ID        FlexID `json:"id"`
	OrderID   FlexID `json:"orderId"`
	OrderCode string `json:"orderCode"`
}

// Key returns whichever id field the backend filled in.
func (o CreatedOrder) Key() string {
	if o.OrderID != "" {
		return o.OrderID.String()
	}
	return o.ID.String()
}

type OrderItem struct {
	ProductID   FlexID          `json:"productId"`
	ProductName string          `json:"productName"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
}

type Order struct {
	ID             FlexID          `json:"id"`
	OrderCode      string          `json:"orderCode"`
	Status         string          `json:"status"`
	PaymentStatus  string          `json:"paymentStatus"`
	PaymentMethod  int             `json:"paymentMethod"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FullName       string          `json:"fullName"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	CreatedAt      string          `json:"createdAt"`
	Items          []OrderItem     `json:"items"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}
