package model

import (
	"fmt"
	"strings"
)

type PaymentMethod int

const (
	PaymentCOD          PaymentMethod = 1
	PaymentVNPay        PaymentMethod = 2
	PaymentMoMo         PaymentMethod = 3
	PaymentBankTransfer PaymentMethod = 4
)

// ParsePaymentMethod accepts the names used by the view layer ("cod", "vnpay", "momo",
// "bank_transfer").
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cod":
		return PaymentCOD, nil
	case "vnpay":
		return PaymentVNPay, nil
	case "momo":
		return PaymentMoMo, nil
	case "bank_transfer", "banking":
		return PaymentBankTransfer, nil
	default:
		return 0, fmt.Errorf("unknown payment method %q", s)
	}
}

func (m PaymentMethod) String() string {
	switch m {
	case PaymentCOD:
		return "cod"
	case PaymentVNPay:
		return "vnpay"
	case PaymentMoMo:
		return "momo"
	case PaymentBankTransfer:
		return "bank_transfer"
	default:
		return fmt.Sprintf("payment_method(%d)", int(m))
	}
}

// IsGateway is true for methods that redirect to a third-party payment page.
func (m PaymentMethod) IsGateway() bool {
	return m == PaymentVNPay || m == PaymentMoMo
}

type Contact struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type ShippingAddress struct {
	Address  string `json:"address"`
	City     string `json:"city"`
	District string `json:"district,omitempty"`
	Ward     string `json:"ward,omitempty"`
	Note     string `json:"note,omitempty"`
}

type OrderItem struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// DraftOrder is the one-shot payload posted to the backend at checkout.
type DraftOrder struct {
	Contact
	ShippingAddress
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Items          []OrderItem   `json:"items"`
	Subtotal       int64         `json:"subtotal"`
	DiscountCode   string        `json:"discountCode,omitempty"`
	DiscountAmount int64         `json:"discountAmount"`
	TotalAmount    int64         `json:"totalAmount"`
	ReserveOnly    bool          `json:"reserveOnly"`
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

type AppliedDiscount struct {
	Code           string       `json:"code"`
	Type           DiscountType `json:"type"`
	Value          int64        `json:"value"`
	MaxDiscount    int64        `json:"maxDiscount,omitempty"`
	ComputedAmount int64        `json:"computedAmount"`
}
