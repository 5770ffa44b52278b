package payment

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/checkout"
	"storefront-service/helper"
	"storefront-service/repository"
)

func redirecting(orderID string, owner int) repository.CheckoutAttempt {
	return repository.CheckoutAttempt{OrderID: orderID, UserID: owner, State: checkout.StateRedirecting.String()}
}

func TestVNPayReturn_Success(t *testing.T) {
	c, l, h := &mockCart{}, newMockLedger(redirecting("42", 7)), &mockHolds{}
	svc := NewService(c, l, h, Secrets{VNPayHashSecret: "secret"})

	q := vnpayParams()
	q.Set("vnp_SecureHash", SignVNPay(q, "secret"))

	p := svc.VNPayReturn(context.Background(), q)

	assert.True(t, p.Success)
	assert.True(t, p.Verified)
	assert.True(t, p.CartCleared)
	assert.Equal(t, int64(200000), p.Amount)
	assert.Equal(t, "200.000 ₫", p.AmountText)
	assert.Equal(t, "NCB", p.Bank)
	assert.Equal(t, "14250000", p.TransactionID)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, 2024, p.PaidAt.Year())
	assert.Equal(t, SuccessRedirect, p.RedirectTo)
	assert.Equal(t, 5, p.RedirectAfter)

	assert.Equal(t, []int{7}, c.cleared)
	assert.Equal(t, checkout.StatePaid.String(), l.state("42"))
	assert.Equal(t, []string{"42"}, h.released)
	require.Len(t, l.callbacks, 1)
	assert.True(t, l.callbacks[0].Success)
	assert.True(t, l.callbacks[0].Verified)
}

func TestVNPayReturn_Cancelled(t *testing.T) {
	c, l, h := &mockCart{}, newMockLedger(redirecting("42", 7)), &mockHolds{}
	svc := NewService(c, l, h, Secrets{VNPayHashSecret: "secret"})

	q := vnpayParams()
	q.Set("vnp_ResponseCode", "24")
	q.Set("vnp_SecureHash", SignVNPay(q, "secret"))

	p := svc.VNPayReturn(context.Background(), q)

	assert.False(t, p.Success)
	assert.Equal(t, "Khách hàng hủy giao dịch", p.Message)
	assert.Equal(t, FailureRedirect, p.RedirectTo)
	assert.Equal(t, 10, p.RedirectAfter)
	assert.Empty(t, c.cleared, "cart is kept on failure")
	assert.Equal(t, checkout.StatePaymentFailed.String(), l.state("42"))
	require.Len(t, l.callbacks, 1)
	assert.False(t, l.callbacks[0].Success)
}

func TestVNPayReturn_InvalidSignature(t *testing.T) {
	c, l, h := &mockCart{}, newMockLedger(redirecting("42", 7)), &mockHolds{}
	svc := NewService(c, l, h, Secrets{VNPayHashSecret: "secret"})

	q := vnpayParams()
	q.Set("vnp_SecureHash", "deadbeef")

	p := svc.VNPayReturn(context.Background(), q)

	assert.False(t, p.Success)
	assert.False(t, p.Verified)
	assert.Equal(t, invalidSignatureMessage, p.Message)
	assert.Empty(t, c.cleared)
	assert.Empty(t, h.released)
	assert.Equal(t, checkout.StateRedirecting.String(), l.state("42"), "no state change on a forged callback")
	require.Len(t, l.callbacks, 1, "forged callbacks are still recorded")
	assert.False(t, l.callbacks[0].Verified)
}

func TestVNPayReturn_NoSecretSkipsVerification(t *testing.T) {
	c, l := &mockCart{}, newMockLedger(redirecting("42", 7))
	svc := NewService(c, l, &mockHolds{}, Secrets{})

	p := svc.VNPayReturn(context.Background(), vnpayParams())

	assert.True(t, p.Success)
	assert.False(t, p.Verified)
	assert.Equal(t, []int{7}, c.cleared)
}

func TestVNPayReturn_OwnerFromBearerWhenLedgerMisses(t *testing.T) {
	c := &mockCart{}
	svc := NewService(c, newMockLedger(), &mockHolds{}, Secrets{})

	ctx := context.WithValue(context.Background(), helper.UserIDKey, 9)
	p := svc.VNPayReturn(ctx, vnpayParams())

	assert.True(t, p.Success)
	assert.Equal(t, []int{9}, c.cleared)
}

func TestVNPayReturn_UnknownOwner(t *testing.T) {
	c := &mockCart{}
	svc := NewService(c, newMockLedger(), &mockHolds{}, Secrets{})

	p := svc.VNPayReturn(context.Background(), vnpayParams())

	assert.True(t, p.Success)
	assert.False(t, p.CartCleared)
	assert.Empty(t, c.cleared)
}

func TestVNPayReturn_CartClearFails(t *testing.T) {
	c := &mockCart{err: errors.New("redis down")}
	svc := NewService(c, newMockLedger(redirecting("42", 7)), &mockHolds{}, Secrets{})

	p := svc.VNPayReturn(context.Background(), vnpayParams())

	assert.True(t, p.Success, "payment result does not depend on the cart store")
	assert.False(t, p.CartCleared)
}

func TestMoMoReturn(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		success   bool
		wantState checkout.State
	}{
		{"captured", "0", true, checkout.StatePaid},
		{"authorized", "9000", true, checkout.StatePaid},
		{"user denied", "1006", false, checkout.StatePaymentFailed},
		{"unknown", "4242", false, checkout.StatePaymentFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, l := &mockCart{}, newMockLedger(redirecting("42", 7))
			svc := NewService(c, l, &mockHolds{}, Secrets{MoMoAccessKey: "access", MoMoSecretKey: "secret"})

			q := momoParams()
			q.Set("resultCode", tt.code)
			q.Set("signature", SignMoMo(q, "access", "secret"))

			p := svc.MoMoReturn(context.Background(), q)

			assert.Equal(t, tt.success, p.Success)
			assert.True(t, p.Verified)
			assert.Equal(t, tt.wantState.String(), l.state("42"))
			assert.Equal(t, "MoMo (qr)", p.Bank)
			assert.Equal(t, int64(200000), p.Amount)
			assert.Equal(t, "3100000000", p.TransactionID)
			if tt.success {
				assert.Equal(t, []int{7}, c.cleared)
			} else {
				assert.Empty(t, c.cleared)
			}
		})
	}
}

func TestMoMoReturn_LateSuccessAfterExpiry(t *testing.T) {
	a := redirecting("42", 7)
	a.State = checkout.StateExpired.String()
	l := newMockLedger(a)
	svc := NewService(&mockCart{}, l, &mockHolds{}, Secrets{})

	p := svc.MoMoReturn(context.Background(), momoParams())

	assert.True(t, p.Success)
	assert.Equal(t, checkout.StatePaid.String(), l.state("42"))
}

func codDone(orderID string, owner int) repository.CheckoutAttempt {
	return repository.CheckoutAttempt{OrderID: orderID, UserID: owner, State: checkout.StateCODDone.String()}
}

func asUser(id int) context.Context {
	return context.WithValue(context.Background(), helper.UserIDKey, id)
}

func TestOrderResult(t *testing.T) {
	c, l := &mockCart{}, newMockLedger(codDone("42", 7))
	svc := NewService(c, l, &mockHolds{}, Secrets{})

	p := svc.OrderResult(asUser(7), url.Values{"status": {"success"}, "orderId": {"42"}})
	assert.True(t, p.Success)
	assert.True(t, p.CartCleared)
	assert.Equal(t, []int{7}, c.cleared)
	assert.Equal(t, checkout.StatePaid.String(), l.state("42"))
	assert.Empty(t, l.callbacks, "generic landings are not provider callbacks")

	p = svc.OrderResult(context.Background(), url.Values{"status": {"failed"}, "message": {"Hết hàng"}})
	assert.False(t, p.Success)
	assert.Equal(t, "Hết hàng", p.Message)
	assert.Equal(t, FailureRedirect, p.RedirectTo)
}

func TestOrderResult_CannotSettleGatewayOrders(t *testing.T) {
	tests := []struct {
		name  string
		state checkout.State
		ctx   context.Context
	}{
		{"anonymous on redirecting", checkout.StateRedirecting, context.Background()},
		{"owner on redirecting", checkout.StateRedirecting, asUser(5)},
		{"owner on expired", checkout.StateExpired, asUser(5)},
		{"owner on payment_failed", checkout.StatePaymentFailed, asUser(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := repository.CheckoutAttempt{OrderID: "77", UserID: 5, PaymentMethod: 2, State: tt.state.String()}
			c, l, h := &mockCart{}, newMockLedger(a), &mockHolds{}
			svc := NewService(c, l, h, Secrets{VNPayHashSecret: "secret", MoMoSecretKey: "secret"})

			p := svc.OrderResult(tt.ctx, url.Values{"status": {"success"}, "orderId": {"77"}})

			assert.False(t, p.Verified)
			assert.False(t, p.CartCleared)
			assert.Empty(t, c.cleared)
			assert.Empty(t, h.released)
			assert.Equal(t, tt.state.String(), l.state("77"))
		})
	}
}

func TestOrderResult_OnlyOwnerCartIsCleared(t *testing.T) {
	c, l := &mockCart{}, newMockLedger(codDone("42", 7))
	svc := NewService(c, l, &mockHolds{}, Secrets{})

	p := svc.OrderResult(context.Background(), url.Values{"status": {"success"}, "orderId": {"42"}})
	assert.False(t, p.CartCleared, "anonymous callers never clear a cart")

	p = svc.OrderResult(asUser(9), url.Values{"status": {"success"}, "orderId": {"42"}})
	assert.False(t, p.CartCleared, "another user cannot clear the owner's cart")

	assert.Empty(t, c.cleared)
	assert.Equal(t, checkout.StateCODDone.String(), l.state("42"))
}

func TestOrderResult_FailureLeavesLedgerAlone(t *testing.T) {
	l := newMockLedger(redirecting("42", 7))
	svc := NewService(&mockCart{}, l, &mockHolds{}, Secrets{})

	p := svc.OrderResult(context.Background(), url.Values{"status": {"failed"}, "orderId": {"42"}})

	assert.False(t, p.Success)
	assert.Equal(t, "Đặt hàng không thành công", p.Message)
	assert.Equal(t, checkout.StateRedirecting.String(), l.state("42"))
}
