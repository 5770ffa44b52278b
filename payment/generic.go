package payment

import "strings"

// GenericResult is the order-success / order-failed view's status parameter.
type GenericResult int

const (
	GenericFailed GenericResult = iota
	GenericSuccess
)

func ParseGenericStatus(status string) GenericResult {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "ok", "paid":
		return GenericSuccess
	default:
		return GenericFailed
	}
}

func (r GenericResult) Provider() string { return ProviderGeneric }

func (r GenericResult) Success() bool { return r == GenericSuccess }

func (r GenericResult) Message() string {
	switch r {
	case GenericSuccess:
		return "Đặt hàng thành công"
	case GenericFailed:
		return "Đặt hàng không thành công"
	}
	return "Đặt hàng không thành công"
}
