package orders

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/backend"
	"storefront-service/model"
)

type mockFetcher struct {
	page     backend.OrderPage
	order    backend.Order
	err      error
	gotPage  int
	gotLimit int
	gotState string
	calls    int
}

func (m *mockFetcher) ListMine(_ context.Context, _ string, page, limit int, status string) (backend.OrderPage, error) {
	m.calls++
	m.gotPage, m.gotLimit, m.gotState = page, limit, status
	return m.page, m.err
}

func (m *mockFetcher) Get(_ context.Context, _, _ string) (backend.Order, error) {
	m.calls++
	return m.order, m.err
}

func TestParseListParams(t *testing.T) {
	p, err := ParseListParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, ListParams{Page: 1, Limit: DefaultLimit}, p)

	p, err = ParseListParams(url.Values{"page": {"3"}, "limit": {"20"}, "status": {"Shipping"}})
	require.NoError(t, err)
	assert.Equal(t, ListParams{Page: 3, Limit: 20, Status: StatusShipping}, p)

	p, err = ParseListParams(url.Values{"status": {"all"}})
	require.NoError(t, err)
	assert.Empty(t, p.Status)

	for _, q := range []url.Values{
		{"page": {"0"}},
		{"page": {"abc"}},
		{"limit": {"51"}},
		{"limit": {"-1"}},
		{"status": {"teleported"}},
	} {
		_, err := ParseListParams(q)
		assert.ErrorIs(t, err, ErrInvalidQuery, "query %v", q)
	}
}

func TestList(t *testing.T) {
	f := &mockFetcher{page: backend.OrderPage{
		Orders: []backend.Order{{
			ID:            "12",
			Status:        "delivered",
			PaymentStatus: "paid",
			PaymentMethod: int(model.PaymentVNPay),
			TotalAmount:   decimal.NewFromInt(350000),
			Items:         []backend.OrderItem{{Quantity: 2}, {Quantity: 1}},
		}},
		Pagination: backend.Pagination{Total: 1, TotalPages: 1},
	}}
	svc := NewService(f)

	page, err := svc.List(context.Background(), "tok", ListParams{Page: 2, Limit: 5, Status: StatusDelivered})
	require.NoError(t, err)

	assert.Equal(t, 2, f.gotPage)
	assert.Equal(t, 5, f.gotLimit)
	assert.Equal(t, "delivered", f.gotState)

	require.Len(t, page.Orders, 1)
	o := page.Orders[0]
	assert.Equal(t, "12", o.ID)
	assert.Equal(t, "Đã giao hàng", o.StatusLabel)
	assert.Equal(t, "Đã thanh toán", o.PaymentStatusLabel)
	assert.Equal(t, "VNPAY", o.PaymentMethodLabel)
	assert.Equal(t, "350.000 ₫", o.TotalText)
	assert.Equal(t, 3, o.ItemCount)
	assert.Equal(t, 2, page.Pagination.Page, "page falls back to the request when the backend omits it")
	assert.Equal(t, 5, page.Pagination.Limit)
}

func TestList_RefetchesEveryCall(t *testing.T) {
	f := &mockFetcher{}
	svc := NewService(f)

	for i := 0; i < 3; i++ {
		_, err := svc.List(context.Background(), "tok", ListParams{Page: 1, Limit: 10})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.calls)
}

func TestList_BackendError(t *testing.T) {
	f := &mockFetcher{err: &backend.APIError{Status: 401, Message: "Unauthorized"}}
	_, err := NewService(f).List(context.Background(), "", ListParams{Page: 1, Limit: 10})

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
}

func TestGet(t *testing.T) {
	f := &mockFetcher{order: backend.Order{
		ID:             "12",
		Status:         "PENDING",
		PaymentStatus:  "reserved",
		PaymentMethod:  int(model.PaymentMoMo),
		TotalAmount:    decimal.NewFromInt(180000),
		DiscountAmount: decimal.NewFromInt(20000),
		FullName:       "Nguyễn Văn A",
		Phone:          "0901234567",
		Items: []backend.OrderItem{{
			ProductID:   "5",
			ProductName: "Áo thun",
			Quantity:    2,
			Price:       decimal.NewFromInt(100000),
			Size:        "M",
		}},
	}}

	d, err := NewService(f).Get(context.Background(), "tok", "12")
	require.NoError(t, err)

	assert.Equal(t, "Chờ xác nhận", d.StatusLabel)
	assert.Equal(t, "Chờ thanh toán", d.PaymentStatusLabel)
	assert.Equal(t, int64(20000), d.DiscountAmount)
	assert.Equal(t, "Nguyễn Văn A", d.Contact.FullName)
	require.Len(t, d.Items, 1)
	assert.Equal(t, int64(200000), d.Items[0].LineTotal)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Đã hủy", StatusCancelled.Label())
	assert.Equal(t, "mystery", Status("mystery").Label(), "unknown statuses pass through")
	assert.Equal(t, "Đã hoàn tiền", PaymentRefunded.Label())
	assert.Equal(t, "Khác", PaymentMethodLabel(model.PaymentMethod(9)))
	assert.False(t, Status("mystery").Known())
}
