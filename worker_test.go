package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-service/checkout"
)

type fakeExpiryLedger struct {
	orderID string
	from    []string
	to      string
	err     error
	calls   int
}

func (f *fakeExpiryLedger) Transition(_ context.Context, orderID string, from []string, to, _ string) (bool, error) {
	f.calls++
	f.orderID, f.from, f.to = orderID, from, to
	return f.err == nil, f.err
}

func TestHandleExpiredKey(t *testing.T) {
	l := &fakeExpiryLedger{}
	handleExpiredKey(context.Background(), l, checkout.HoldKey("101"))

	assert.Equal(t, 1, l.calls)
	assert.Equal(t, "101", l.orderID)
	assert.Equal(t, "expired", l.to)
	assert.Equal(t, []string{"redirecting"}, l.from)
}

func TestHandleExpiredKey_IgnoresOtherKeys(t *testing.T) {
	l := &fakeExpiryLedger{}
	handleExpiredKey(context.Background(), l, "cart:7")
	handleExpiredKey(context.Background(), l, "reservation:3")
	assert.Zero(t, l.calls)
}

func TestHandleExpiredKey_LedgerError(t *testing.T) {
	l := &fakeExpiryLedger{err: errors.New("db down")}
	handleExpiredKey(context.Background(), l, checkout.HoldKey("101"))
	assert.Equal(t, 1, l.calls)
}
