package payment

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-service/checkout"
	"storefront-service/helper"
	"storefront-service/repository"
)

const (
	ProviderVNPay   = "vnpay"
	ProviderMoMo    = "momo"
	ProviderGeneric = "generic"

	SuccessRedirect = "/orders"
	FailureRedirect = "/cart"

	SuccessRedirectAfter = 5 * time.Second
	FailureRedirectAfter = 10 * time.Second

	invalidSignatureMessage = "Chữ ký không hợp lệ"
)

// Vietnam has no DST, so a fixed zone avoids depending on tzdata in the container.
var vnZone = time.FixedZone("ICT", 7*60*60)

type CartClearer interface {
	Clear(ctx context.Context, owner int) error
}

type Ledger interface {
	AttemptByOrderID(ctx context.Context, orderID string) (repository.CheckoutAttempt, error)
	Transition(ctx context.Context, orderID string, from []string, to, message string) (bool, error)
	RecordCallback(ctx context.Context, cb repository.PaymentCallback) error
}

type HoldReleaser interface {
	Release(ctx context.Context, orderID string) error
}

type Secrets struct {
	VNPayHashSecret string
	MoMoAccessKey   string
	MoMoSecretKey   string
}

// Panel is what the result view renders after a provider redirect.
type Panel struct {
	Provider      string     `json:"provider"`
	Success       bool       `json:"success"`
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	OrderID       string     `json:"orderId,omitempty"`
	Amount        int64      `json:"amount,omitempty"`
	AmountText    string     `json:"amountText,omitempty"`
	Bank          string     `json:"bank,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	Verified      bool       `json:"verified"`
	CartCleared   bool       `json:"cartCleared"`
	RedirectTo    string     `json:"redirectTo"`
	RedirectAfter int        `json:"redirectAfterSeconds"`
}

type Service struct {
	cart    CartClearer
	ledger  Ledger
	holds   HoldReleaser
	secrets Secrets
}

func NewService(c CartClearer, l Ledger, h HoldReleaser, secrets Secrets) *Service {
	return &Service{cart: c, ledger: l, holds: h, secrets: secrets}
}

// VNPayReturn handles the browser redirect from VNPAY.
func (s *Service) VNPayReturn(ctx context.Context, q url.Values) Panel {
	code := q.Get("vnp_ResponseCode")
	result := ParseVNPayCode(code)

	p := Panel{
		Provider:      ProviderVNPay,
		Code:          code,
		OrderID:       q.Get("vnp_TxnRef"),
		Bank:          q.Get("vnp_BankCode"),
		TransactionID: q.Get("vnp_TransactionNo"),
	}
	if amount, err := helper.ParseMinorUnits(q.Get("vnp_Amount")); err == nil {
		p.Amount = amount
	}
	if t, err := time.ParseInLocation("20060102150405", q.Get("vnp_PayDate"), vnZone); err == nil {
		p.PaidAt = &t
	}

	verified, checked := true, false
	if s.secrets.VNPayHashSecret != "" {
		checked = true
		verified = VerifyVNPay(q, s.secrets.VNPayHashSecret)
	} else {
		log.Printf("[payment] vnpay hash secret not configured, skipping signature check for order %s", p.OrderID)
	}
	return s.settle(ctx, p, result, checked, verified, q)
}

// MoMoReturn handles the browser redirect from MoMo.
func (s *Service) MoMoReturn(ctx context.Context, q url.Values) Panel {
	code := q.Get("resultCode")
	result := ParseMoMoCode(code)

	p := Panel{
		Provider:      ProviderMoMo,
		Code:          code,
		OrderID:       q.Get("orderId"),
		Bank:          momoBank(q.Get("payType")),
		TransactionID: q.Get("transId"),
	}
	if amount, err := helper.ParseMoney(q.Get("amount")); err == nil {
		p.Amount = amount
	}
	if ms, err := strconv.ParseInt(q.Get("responseTime"), 10, 64); err == nil && ms > 0 {
		t := time.UnixMilli(ms).In(vnZone)
		p.PaidAt = &t
	}

	verified, checked := true, false
	if s.secrets.MoMoSecretKey != "" {
		checked = true
		verified = VerifyMoMo(q, s.secrets.MoMoAccessKey, s.secrets.MoMoSecretKey)
	} else {
		log.Printf("[payment] momo secret key not configured, skipping signature check for order %s", p.OrderID)
	}
	return s.settle(ctx, p, result, checked, verified, q)
}

// codPaidFrom is the only ledger state the unsigned generic landing may settle.
var codPaidFrom = []string{checkout.StateCODDone.String()}

// OrderResult handles the generic order-success / order-failed landing. The query is
// unsigned, so it never touches gateway attempts and only clears the caller's own cart.
func (s *Service) OrderResult(ctx context.Context, q url.Values) Panel {
	status := q.Get("status")
	result := ParseGenericStatus(status)
	p := Panel{
		Provider: ProviderGeneric,
		Code:     status,
		OrderID:  q.Get("orderId"),
	}
	if amount, err := helper.ParseMoney(q.Get("amount")); err == nil {
		p.Amount = amount
		p.AmountText = helper.FormatVND(amount)
	}

	if !result.Success() {
		msg := strings.TrimSpace(q.Get("message"))
		if msg == "" {
			msg = result.Message()
		}
		return failurePanel(p, msg)
	}

	p.Success = true
	p.Message = result.Message()
	p.RedirectTo = SuccessRedirect
	p.RedirectAfter = int(SuccessRedirectAfter / time.Second)
	p.CartCleared = s.settleCOD(ctx, p.OrderID)
	return p
}

// settleCOD marks a cash-on-delivery attempt paid and clears the cart, but only for a
// signed-in caller who owns the order.
func (s *Service) settleCOD(ctx context.Context, orderID string) bool {
	caller := helper.GetUserIDFromContext(ctx)
	if caller <= 0 || s.ledger == nil || orderID == "" {
		return false
	}

	att, err := s.ledger.AttemptByOrderID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, repository.ErrAttemptNotFound) {
			log.Printf("[payment] lookup attempt for order %s failed: %v", orderID, err)
		}
		return false
	}
	if att.UserID != caller {
		log.Printf("[payment] user %d is not the owner of order %s, ignoring order result", caller, orderID)
		return false
	}

	changed, err := s.ledger.Transition(ctx, orderID, codPaidFrom, checkout.StatePaid.String(), "")
	if err != nil {
		log.Printf("[payment] mark order %s paid failed: %v", orderID, err)
		return false
	}
	if !changed {
		log.Printf("[payment] order %s is not a completed COD order, ignoring order result", orderID)
		return false
	}

	if err := s.cart.Clear(ctx, caller); err != nil {
		log.Printf("[payment] clear cart for user %d after order %s failed: %v", caller, orderID, err)
		return false
	}
	return true
}

func momoBank(payType string) string {
	if payType == "" {
		return "MoMo"
	}
	return "MoMo (" + payType + ")"
}

// settle records a provider callback and, when trusted, applies it to the cart and ledger.
func (s *Service) settle(ctx context.Context, p Panel, result Result, checked, verified bool, q url.Values) Panel {
	p.Verified = checked && verified
	if p.Amount > 0 {
		p.AmountText = helper.FormatVND(p.Amount)
	}

	s.recordCallback(ctx, p, result, q)

	if !verified {
		log.Printf("[payment] %s callback for order %s has an invalid signature", p.Provider, p.OrderID)
		return failurePanel(p, invalidSignatureMessage)
	}

	if !result.Success() {
		s.markFailed(ctx, p.OrderID, result.Message())
		return failurePanel(p, result.Message())
	}

	p.Success = true
	p.Message = result.Message()
	p.RedirectTo = SuccessRedirect
	p.RedirectAfter = int(SuccessRedirectAfter / time.Second)
	p.CartCleared = s.markPaid(ctx, p.OrderID)
	return p
}

func failurePanel(p Panel, message string) Panel {
	p.Success = false
	p.Message = message
	p.RedirectTo = FailureRedirect
	p.RedirectAfter = int(FailureRedirectAfter / time.Second)
	return p
}

func (s *Service) recordCallback(ctx context.Context, p Panel, result Result, q url.Values) {
	if s.ledger == nil {
		return
	}
	err := s.ledger.RecordCallback(ctx, repository.PaymentCallback{
		Provider:   p.Provider,
		OrderID:    p.OrderID,
		ResultCode: p.Code,
		Success:    result.Success(),
		Verified:   p.Verified,
		RawQuery:   q.Encode(),
	})
	if err != nil {
		log.Printf("[payment] record %s callback for order %s failed: %v", p.Provider, p.OrderID, err)
	}
}

// owner resolves who placed orderID: the ledger first, then the bearer on the request.
func (s *Service) owner(ctx context.Context, orderID string) (int, bool) {
	if s.ledger != nil && orderID != "" {
		att, err := s.ledger.AttemptByOrderID(ctx, orderID)
		if err == nil {
			return att.UserID, true
		}
		if !errors.Is(err, repository.ErrAttemptNotFound) {
			log.Printf("[payment] lookup attempt for order %s failed: %v", orderID, err)
		}
	}
	if id := helper.GetUserIDFromContext(ctx); id > 0 {
		return id, true
	}
	return 0, false
}

func (s *Service) markPaid(ctx context.Context, orderID string) bool {
	s.transition(ctx, orderID, checkout.StatePaid, "")
	s.release(ctx, orderID)

	owner, ok := s.owner(ctx, orderID)
	if !ok {
		log.Printf("[payment] no owner known for paid order %s, cart left as is", orderID)
		return false
	}
	if err := s.cart.Clear(ctx, owner); err != nil {
		log.Printf("[payment] clear cart for user %d after order %s failed: %v", owner, orderID, err)
		return false
	}
	log.Printf("[payment] order %s paid, cart of user %d cleared", orderID, owner)
	return true
}

func (s *Service) markFailed(ctx context.Context, orderID, message string) {
	s.transition(ctx, orderID, checkout.StatePaymentFailed, message)
	s.release(ctx, orderID)
}

func (s *Service) transition(ctx context.Context, orderID string, to checkout.State, message string) {
	if s.ledger == nil || orderID == "" {
		return
	}
	changed, err := s.ledger.Transition(ctx, orderID, checkout.SourcesOf(to), to.String(), message)
	if err != nil {
		log.Printf("[payment] mark order %s %s failed: %v", orderID, to, err)
		return
	}
	if !changed {
		log.Printf("[payment] order %s not moved to %s from its current state", orderID, to)
	}
}

func (s *Service) release(ctx context.Context, orderID string) {
	if s.holds == nil || orderID == "" {
		return
	}
	if err := s.holds.Release(ctx, orderID); err != nil {
		log.Printf("[payment] release hold for order %s failed: %v", orderID, err)
	}
}
