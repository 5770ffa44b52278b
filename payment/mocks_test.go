package payment

import (
	"context"

	"storefront-service/repository"
)

type mockCart struct {
	cleared []int
	err     error
}

func (m *mockCart) Clear(_ context.Context, owner int) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = append(m.cleared, owner)
	return nil
}

type mockLedger struct {
	attempts  map[string]*repository.CheckoutAttempt
	callbacks []repository.PaymentCallback
}

func newMockLedger(attempts ...repository.CheckoutAttempt) *mockLedger {
	m := &mockLedger{attempts: map[string]*repository.CheckoutAttempt{}}
	for i := range attempts {
		a := attempts[i]
		m.attempts[a.OrderID] = &a
	}
	return m
}

func (m *mockLedger) AttemptByOrderID(_ context.Context, orderID string) (repository.CheckoutAttempt, error) {
	a, ok := m.attempts[orderID]
	if !ok {
		return repository.CheckoutAttempt{}, repository.ErrAttemptNotFound
	}
	return *a, nil
}

func (m *mockLedger) Transition(_ context.Context, orderID string, from []string, to, message string) (bool, error) {
	a, ok := m.attempts[orderID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if a.State == f {
			a.State, a.Message = to, message
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLedger) RecordCallback(_ context.Context, cb repository.PaymentCallback) error {
	m.callbacks = append(m.callbacks, cb)
	return nil
}

func (m *mockLedger) state(orderID string) string {
	if a, ok := m.attempts[orderID]; ok {
		return a.State
	}
	return ""
}

type mockHolds struct {
	released []string
}

func (m *mockHolds) Release(_ context.Context, orderID string) error {
	m.released = append(m.released, orderID)
	return nil
}
