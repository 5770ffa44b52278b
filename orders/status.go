package orders

import (
	"strings"

	"storefront-service/model"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

// ParseStatus normalizes a backend status; unknown values are kept as-is.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipping,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Chờ xác nhận"
	case StatusConfirmed:
		return "Đã xác nhận"
	case StatusProcessing:
		return "Đang xử lý"
	case StatusShipping:
		return "Đang giao hàng"
	case StatusDelivered:
		return "Đã giao hàng"
	case StatusCancelled:
		return "Đã hủy"
	case StatusReturned:
		return "Đã trả hàng"
	}
	return string(s)
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReserved PaymentStatus = "reserved"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) PaymentStatus {
	return PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
}

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Chưa thanh toán"
	case PaymentReserved:
		return "Chờ thanh toán"
	case PaymentPaid:
		return "Đã thanh toán"
	case PaymentFailed:
		return "Thanh toán thất bại"
	case PaymentRefunded:
		return "Đã hoàn tiền"
	}
	return string(s)
}

func PaymentMethodLabel(m model.PaymentMethod) string {
	switch m {
	case model.PaymentCOD:
		return "Thanh toán khi nhận hàng (COD)"
	case model.PaymentVNPay:
		return "VNPAY"
	case model.PaymentMoMo:
		return "Ví MoMo"
	case model.PaymentBankTransfer:
		return "Chuyển khoản ngân hàng"
	}
	return "Khác"
}
