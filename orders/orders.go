// Package orders renders the shopper's order history from the backend.
package orders

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront-service/backend"
	"storefront-service/helper"
	"storefront-service/model"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

var ErrInvalidQuery = errors.New("invalid_query")

type Fetcher interface {
	ListMine(ctx context.Context, token string, page, limit int, status string) (backend.OrderPage, error)
	Get(ctx context.Context, token, orderID string) (backend.Order, error)
}

type ListParams struct {
	Page   int
	Limit  int
	Status Status
}

// ParseListParams reads page, limit and status from a query string.
func ParseListParams(q url.Values) (ListParams, error) {
	p := ListParams{Page: 1, Limit: DefaultLimit}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: page must be a positive integer", ErrInvalidQuery)
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return p, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxLimit)
		}
		p.Limit = n
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" && !strings.EqualFold(v, "all") {
		p.Status = ParseStatus(v)
		if !p.Status.Known() {
			return p, fmt.Errorf("%w: unknown status %q", ErrInvalidQuery, v)
		}
	}
	return p, nil
}

type Summary struct {
	ID                 string `json:"id"`
	OrderCode          string `json:"orderCode,omitempty"`
	Status             string `json:"status"`
	StatusLabel        string `json:"statusLabel"`
	PaymentStatus      string `json:"paymentStatus"`
	PaymentStatusLabel string `json:"paymentStatusLabel"`
	PaymentMethodLabel string `json:"paymentMethodLabel"`
	TotalAmount        int64  `json:"totalAmount"`
	TotalText          string `json:"totalText"`
	ItemCount          int    `json:"itemCount"`
	CreatedAt          string `json:"createdAt"`
}

type Line struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Image       string `json:"image,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	LineTotal   int64  `json:"lineTotal"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
}

type Detail struct {
	Summary
	DiscountAmount int64         `json:"discountAmount"`
	Contact        model.Contact `json:"contact"`
	Address        string        `json:"address"`
	Items          []Line        `json:"items"`
}

type Page struct {
	Orders     []Summary          `json:"orders"`
	Pagination backend.Pagination `json:"pagination"`
	Status     string             `json:"status,omitempty"`
}

type Service struct {
	fetcher Fetcher
}

func NewService(f Fetcher) *Service {
	return &Service{fetcher: f}
}

// List fetches one page of the shopper's orders. Nothing is cached between calls.
func (s *Service) List(ctx context.Context, token string, p ListParams) (Page, error) {
	res, err := s.fetcher.ListMine(ctx, token, p.Page, p.Limit, string(p.Status))
	if err != nil {
		return Page{}, err
	}

	out := Page{
		Orders:     make([]Summary, 0, len(res.Orders)),
		Pagination: res.Pagination,
		Status:     string(p.Status),
	}
	if out.Pagination.Page == 0 {
		out.Pagination.Page = p.Page
	}
	if out.Pagination.Limit == 0 {
		out.Pagination.Limit = p.Limit
	}
	for _, o := range res.Orders {
		out.Orders = append(out.Orders, summarize(o))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, token, orderID string) (Detail, error) {
	o, err := s.fetcher.Get(ctx, token, orderID)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{
		Summary:        summarize(o),
		DiscountAmount: o.DiscountAmount.IntPart(),
		Contact:        model.Contact{FullName: o.FullName, Phone: o.Phone, Email: o.Email},
		Address:        o.Address,
		Items:          make([]Line, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		price := it.Price.IntPart()
		d.Items = append(d.Items, Line{
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			Image:       it.Image,
			Quantity:    it.Quantity,
			Price:       price,
			LineTotal:   price * int64(it.Quantity),
			Size:        it.Size,
			Color:       it.Color,
		})
	}
	return d, nil
}

func summarize(o backend.Order) Summary {
	status := ParseStatus(o.Status)
	pay := ParsePaymentStatus(o.PaymentStatus)
	total := o.TotalAmount.IntPart()

	items := 0
	for _, it := range o.Items {
		items += it.Quantity
	}

	return Summary{
		ID:                 o.ID.String(),
		OrderCode:          o.OrderCode,
		Status:             string(status),
		StatusLabel:        status.Label(),
		PaymentStatus:      string(pay),
		PaymentStatusLabel: pay.Label(),
		PaymentMethodLabel: PaymentMethodLabel(model.PaymentMethod(o.PaymentMethod)),
		TotalAmount:        total,
		TotalText:          helper.FormatVND(total),
		ItemCount:          items,
		CreatedAt:          o.CreatedAt,
	}
}
