package checkout

import (
	"context"
	"time"

	"storefront-service/backend"
	"storefront-service/cart"
	"storefront-service/model"
	"storefront-service/repository"
)

// MockCart implements CartReader over an in-memory cart per owner.
type MockCart struct {
	Carts   map[int]*cart.Cart
	Cleared []int
	LoadErr error
}

func newMockCart(owner int, lines ...model.CartLine) *MockCart {
	return &MockCart{Carts: map[int]*cart.Cart{owner: {Lines: lines}}}
}

func (m *MockCart) Load(_ context.Context, owner int) (*cart.Cart, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if c, ok := m.Carts[owner]; ok {
		return c, nil
	}
	return &cart.Cart{}, nil
}

func (m *MockCart) Clear(_ context.Context, owner int) error {
	m.Cleared = append(m.Cleared, owner)
	if c, ok := m.Carts[owner]; ok {
		c.Clear()
	}
	return nil
}

type MockDiscounts struct {
	Discount backend.Discount
	Err      error
	Calls    int
	Subtotal int64
}

func (m *MockDiscounts) Validate(_ context.Context, _, _ string, subtotal int64) (backend.Discount, error) {
	m.Calls++
	m.Subtotal = subtotal
	return m.Discount, m.Err
}

type MockOrders struct {
	Created backend.CreatedOrder
	Err     error
	Calls   int
	Draft   model.DraftOrder
}

func (m *MockOrders) Create(_ context.Context, _ string, draft model.DraftOrder) (backend.CreatedOrder, error) {
	m.Calls++
	m.Draft = draft
	return m.Created, m.Err
}

type MockPayments struct {
	URL      string
	Err      error
	Provider string
	OrderID  string
	Amount   int64
}

func (m *MockPayments) CreateVNPayURL(_ context.Context, _, orderID string, amount int64) (string, error) {
	m.Provider, m.OrderID, m.Amount = "vnpay", orderID, amount
	return m.URL, m.Err
}

func (m *MockPayments) CreateMoMoURL(_ context.Context, _, orderID string, amount int64) (string, error) {
	m.Provider, m.OrderID, m.Amount = "momo", orderID, amount
	return m.URL, m.Err
}

// MockLedger keeps attempts keyed by id and order id.
type MockLedger struct {
	Attempts  map[int64]*repository.CheckoutAttempt
	nextID    int64
	InsertErr error
}

func newMockLedger() *MockLedger {
	return &MockLedger{Attempts: map[int64]*repository.CheckoutAttempt{}}
}

func (m *MockLedger) InsertAttempt(_ context.Context, a repository.CheckoutAttempt) (int64, error) {
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	m.nextID++
	a.ID = m.nextID
	m.Attempts[a.ID] = &a
	return a.ID, nil
}

func (m *MockLedger) UpdateAttempt(_ context.Context, id int64, state, orderID, message string) error {
	a, ok := m.Attempts[id]
	if !ok {
		return repository.ErrAttemptNotFound
	}
	a.State = state
	if orderID != "" {
		a.OrderID = orderID
	}
	a.Message = message
	return nil
}

func (m *MockLedger) AttemptByOrderID(_ context.Context, orderID string) (repository.CheckoutAttempt, error) {
	for _, a := range m.Attempts {
		if a.OrderID == orderID {
			return *a, nil
		}
	}
	return repository.CheckoutAttempt{}, repository.ErrAttemptNotFound
}

func (m *MockLedger) Transition(_ context.Context, orderID string, from []string, to, message string) (bool, error) {
	for _, a := range m.Attempts {
		if a.OrderID != orderID {
			continue
		}
		for _, f := range from {
			if a.State == f {
				a.State, a.Message = to, message
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *MockLedger) last() *repository.CheckoutAttempt {
	return m.Attempts[m.nextID]
}

type MockHolds struct {
	Held map[string]time.Duration
}

func (m *MockHolds) Hold(_ context.Context, orderID string, _ int, ttl time.Duration) error {
	if m.Held == nil {
		m.Held = map[string]time.Duration{}
	}
	m.Held[orderID] = ttl
	return nil
}
