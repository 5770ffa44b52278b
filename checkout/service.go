package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront-service/backend"
	"storefront-service/cart"
	"storefront-service/model"
	"storefront-service/repository"
)

type CartReader interface {
	Load(ctx context.Context, owner int) (*cart.Cart, error)
	Clear(ctx context.Context, owner int) error
}

type DiscountValidator interface {
	Validate(ctx context.Context, token, code string, subtotal int64) (backend.Discount, error)
}

type OrderCreator interface {
	Create(ctx context.Context, token string, draft model.DraftOrder) (backend.CreatedOrder, error)
}

type PaymentURLs interface {
	CreateVNPayURL(ctx context.Context, token, orderID string, amount int64) (string, error)
	CreateMoMoURL(ctx context.Context, token, orderID string, amount int64) (string, error)
}

type Ledger interface {
	InsertAttempt(ctx context.Context, a repository.CheckoutAttempt) (int64, error)
	UpdateAttempt(ctx context.Context, id int64, state, orderID, message string) error
	AttemptByOrderID(ctx context.Context, orderID string) (repository.CheckoutAttempt, error)
	Transition(ctx context.Context, orderID string, from []string, to, message string) (bool, error)
}

type PaymentHolds interface {
	Hold(ctx context.Context, orderID string, owner int, ttl time.Duration) error
}

type BankAccount struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

type Options struct {
	Bank             BankAccount
	HoldTTL          time.Duration
	OrderSuccessPath string
	BankTransferPath string
}

type Service struct {
	cart      CartReader
	discounts DiscountValidator
	orders    OrderCreator
	payments  PaymentURLs
	ledger    Ledger
	holds     PaymentHolds
	opts      Options
}

func NewService(c CartReader, d DiscountValidator, o OrderCreator, p PaymentURLs, l Ledger, h PaymentHolds, opts Options) *Service {
	if opts.HoldTTL <= 0 {
		opts.HoldTTL = 15 * time.Minute
	}
	if opts.OrderSuccessPath == "" {
		opts.OrderSuccessPath = "/order-success"
	}
	if opts.BankTransferPath == "" {
		opts.BankTransferPath = "/bank-transfer"
	}
	return &Service{cart: c, discounts: d, orders: o, payments: p, ledger: l, holds: h, opts: opts}
}

// attempt follows one checkout through its states and mirrors them to the ledger.
type attempt struct {
	id      int64
	state   State
	orderID string
}

func (a *attempt) advance(to State) error {
	if !CanTransitionTo(a.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.state, to)
	}
	a.state = to
	return nil
}

// record is best-effort: a ledger outage never fails the shopper's checkout.
func (s *Service) record(ctx context.Context, a *attempt, message string) {
	if s.ledger == nil || a.id == 0 {
		return
	}
	if err := s.ledger.UpdateAttempt(ctx, a.id, a.state.String(), a.orderID, message); err != nil {
		log.Printf("[checkout] ledger update attempt %d to %s failed: %v", a.id, a.state, err)
	}
}

// ApplyDiscount validates code against the owner's current subtotal. It never blocks
// checkout: the caller shows the error inline.
func (s *Service) ApplyDiscount(ctx context.Context, owner int, token, code string) (model.AppliedDiscount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.AppliedDiscount{}, ErrDiscountCodeRequired
	}

	c, err := s.cart.Load(ctx, owner)
	if err != nil {
		return model.AppliedDiscount{}, err
	}
	subtotal := c.TotalPrice()
	if c.TotalLines() == 0 {
		return model.AppliedDiscount{}, ErrEmptyCart
	}

	d, err := s.discounts.Validate(ctx, token, code, subtotal)
	if err != nil {
		return model.AppliedDiscount{}, &SubmitError{Stage: StateDiscountPending, Message: backend.UserMessage(err), Err: err}
	}
	return appliedFrom(d, code, subtotal), nil
}

// BuildDraft turns the cart and form into the one-shot order payload.
func BuildDraft(req model.CheckoutRequest, lines []model.CartLine, method model.PaymentMethod, discount *model.AppliedDiscount) model.DraftOrder {
	items := make([]model.OrderItem, 0, len(lines))
	var subtotal int64
	for _, l := range lines {
		items = append(items, model.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
			Size:      l.Size,
			Color:     l.Color,
		})
		subtotal += l.LineTotal()
	}

	draft := model.DraftOrder{
		Contact: model.Contact{
			FullName: strings.TrimSpace(req.FullName),
			Phone:    strings.TrimSpace(req.Phone),
			Email:    strings.TrimSpace(req.Email),
		},
		ShippingAddress: model.ShippingAddress{
			Address:  strings.TrimSpace(req.Address),
			City:     strings.TrimSpace(req.City),
			District: strings.TrimSpace(req.District),
			Ward:     strings.TrimSpace(req.Ward),
			Note:     strings.TrimSpace(req.Note),
		},
		PaymentMethod: method,
		Items:         items,
		Subtotal:      subtotal,
		TotalAmount:   subtotal,
		ReserveOnly:   method.IsGateway(),
	}
	if discount != nil {
		draft.DiscountCode = discount.Code
		draft.DiscountAmount = discount.ComputedAmount
		draft.TotalAmount = subtotal - discount.ComputedAmount
		if draft.TotalAmount < 0 {
			draft.TotalAmount = 0
		}
	}
	return draft
}

// Submit runs one checkout attempt: validate, (re)validate the discount, create the
// order, then branch on the payment method.
func (s *Service) Submit(ctx context.Context, owner int, token string, req model.CheckoutRequest) (model.CheckoutResponse, error) {
	a := &attempt{state: StateEditing}
	if err := a.advance(StateValidating); err != nil {
		return model.CheckoutResponse{}, err
	}

	if fields := ValidateForm(req); len(fields) > 0 {
		return model.CheckoutResponse{}, &ValidationError{Fields: fields}
	}
	method, _ := model.ParsePaymentMethod(req.PaymentMethod)

	c, err := s.cart.Load(ctx, owner)
	if err != nil {
		return model.CheckoutResponse{}, err
	}
	if c.TotalLines() == 0 {
		return model.CheckoutResponse{}, ErrEmptyCart
	}

	// a discount that no longer validates is dropped, never blocking the order
	var discount *model.AppliedDiscount
	var discountErr string
	if code := strings.TrimSpace(req.DiscountCode); code != "" {
		if err := a.advance(StateDiscountPending); err != nil {
			return model.CheckoutResponse{}, err
		}
		d, err := s.discounts.Validate(ctx, token, code, c.TotalPrice())
		if err != nil {
			discountErr = backend.UserMessage(err)
			log.Printf("[checkout] discount %q rejected for user %d, submitting without it: %v", code, owner, err)
		} else {
			applied := appliedFrom(d, code, c.TotalPrice())
			discount = &applied
		}
	}

	draft := BuildDraft(req, c.Lines, method, discount)
	if err := a.advance(StateSubmitting); err != nil {
		return model.CheckoutResponse{}, err
	}

	if s.ledger != nil {
		id, err := s.ledger.InsertAttempt(ctx, repository.CheckoutAttempt{
			UserID:        owner,
			PaymentMethod: int(method),
			TotalAmount:   draft.TotalAmount,
			DiscountCode:  draft.DiscountCode,
			ReserveOnly:   draft.ReserveOnly,
			State:         a.state.String(),
		})
		if err != nil {
			log.Printf("[checkout] ledger insert for user %d failed: %v", owner, err)
		}
		a.id = id
	}

	created, err := s.orders.Create(ctx, token, draft)
	if err != nil {
		return model.CheckoutResponse{}, s.fail(ctx, a, StateSubmitting, err)
	}
	a.orderID = created.Key()
	if a.orderID == "" {
		return model.CheckoutResponse{}, s.fail(ctx, a, StateSubmitting, &backend.APIError{Status: 502, Message: "Không nhận được mã đơn hàng"})
	}
	log.Printf("[checkout] order %s created for user %d via %s (total=%d, reserveOnly=%v)",
		a.orderID, owner, method, draft.TotalAmount, draft.ReserveOnly)

	resp := model.CheckoutResponse{OrderID: a.orderID, TotalAmount: draft.TotalAmount, DiscountError: discountErr}

	switch method {
	case model.PaymentCOD:
		if err := a.advance(StateCODDone); err != nil {
			return model.CheckoutResponse{}, err
		}
		if err := s.cart.Clear(ctx, owner); err != nil {
			log.Printf("[checkout] clear cart for user %d after COD order %s failed: %v", owner, a.orderID, err)
		}
		resp.Location = fmt.Sprintf("%s?orderId=%s", s.opts.OrderSuccessPath, a.orderID)

	case model.PaymentVNPay, model.PaymentMoMo:
		var url string
		if method == model.PaymentVNPay {
			url, err = s.payments.CreateVNPayURL(ctx, token, a.orderID, draft.TotalAmount)
		} else {
			url, err = s.payments.CreateMoMoURL(ctx, token, a.orderID, draft.TotalAmount)
		}
		if err != nil {
			return model.CheckoutResponse{}, s.fail(ctx, a, StateSubmitting, err)
		}
		if err := a.advance(StateRedirecting); err != nil {
			return model.CheckoutResponse{}, err
		}
		// the cart stays until the provider reports success
		if s.holds != nil {
			if err := s.holds.Hold(ctx, a.orderID, owner, s.opts.HoldTTL); err != nil {
				log.Printf("[checkout] payment hold for order %s failed: %v", a.orderID, err)
			}
		}
		resp.RedirectURL = url

	case model.PaymentBankTransfer:
		if err := a.advance(StateBankInstructions); err != nil {
			return model.CheckoutResponse{}, err
		}
		resp.Bank = &model.BankInstructions{
			BankName:      s.opts.Bank.BankName,
			AccountNumber: s.opts.Bank.AccountNumber,
			AccountHolder: s.opts.Bank.AccountHolder,
			Content:       "DH" + a.orderID,
			Amount:        draft.TotalAmount,
		}
		resp.Location = fmt.Sprintf("%s?orderId=%s&amount=%d", s.opts.BankTransferPath, a.orderID, draft.TotalAmount)
	}

	resp.State = a.state.String()
	s.record(ctx, a, "")
	return resp, nil
}

func (s *Service) fail(ctx context.Context, a *attempt, stage State, err error) error {
	msg := backend.UserMessage(err)
	if advErr := a.advance(StateFailed); advErr != nil {
		log.Printf("[checkout] %v", advErr)
	}
	s.record(ctx, a, msg)
	log.Printf("[checkout] attempt failed at %s (order=%q): %v", stage, a.orderID, err)
	return &SubmitError{Stage: stage, OrderID: a.orderID, Message: msg, Err: err}
}

// ConfirmBankTransfer is the shopper's manual "I have transferred" action. Nothing is
// verified with the bank; the cart is cleared and the attempt closed. An order with no
// ledger row (the insert failed at submit time) only clears the caller's own cart.
func (s *Service) ConfirmBankTransfer(ctx context.Context, owner int, orderID string) error {
	att, err := s.ledger.AttemptByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		log.Printf("[checkout] no ledger attempt for order %s, clearing cart of user %d only", orderID, owner)
		return s.cart.Clear(ctx, owner)
	}
	if err != nil {
		return err
	}
	if att.UserID != owner {
		return ErrForbidden
	}
	if model.PaymentMethod(att.PaymentMethod) != model.PaymentBankTransfer {
		return ErrNotBankTransfer
	}

	if State(att.State) != StateTransferConfirmed {
		changed, err := s.ledger.Transition(ctx, orderID, SourcesOf(StateTransferConfirmed), StateTransferConfirmed.String(), "confirmed by customer")
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, att.State, StateTransferConfirmed)
		}
	}

	return s.cart.Clear(ctx, owner)
}
