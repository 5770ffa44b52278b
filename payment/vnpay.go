package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VNPayResult enumerates vnp_ResponseCode values.
type VNPayResult int

const (
	VNPayUnknown VNPayResult = iota
	VNPaySuccess
	VNPaySuspicious
	VNPayNotRegistered
	VNPayAuthFailed
	VNPayTimeout
	VNPayAccountLocked
	VNPayWrongOTP
	VNPayCancelled
	VNPayInsufficientFunds
	VNPayLimitExceeded
	VNPayBankMaintenance
	VNPayTooManyPasswordAttempts
	VNPayOther
)

func ParseVNPayCode(code string) VNPayResult {
	switch strings.TrimSpace(code) {
	case "00":
		return VNPaySuccess
	case "07":
		return VNPaySuspicious
	case "09":
		return VNPayNotRegistered
	case "10":
		return VNPayAuthFailed
	case "11":
		return VNPayTimeout
	case "12":
		return VNPayAccountLocked
	case "13":
		return VNPayWrongOTP
	case "24":
		return VNPayCancelled
	case "51":
		return VNPayInsufficientFunds
	case "65":
		return VNPayLimitExceeded
	case "75":
		return VNPayBankMaintenance
	case "79":
		return VNPayTooManyPasswordAttempts
	case "99":
		return VNPayOther
	default:
		return VNPayUnknown
	}
}

func (r VNPayResult) Provider() string { return ProviderVNPay }

// Success is true only for "00"; "07" took the money but is under review.
func (r VNPayResult) Success() bool { return r == VNPaySuccess }

func (r VNPayResult) Message() string {
	switch r {
	case VNPaySuccess:
		return "Giao dịch thành công"
	case VNPaySuspicious:
		return "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường)."
	case VNPayNotRegistered:
		return "Thẻ/Tài khoản của khách hàng chưa đăng ký dịch vụ InternetBanking tại ngân hàng."
	case VNPayAuthFailed:
		return "Khách hàng xác thực thông tin thẻ/tài khoản không đúng quá 3 lần"
	case VNPayTimeout:
		return "Đã hết hạn chờ thanh toán. Xin quý khách vui lòng thực hiện lại giao dịch."
	case VNPayAccountLocked:
		return "Thẻ/Tài khoản của khách hàng bị khóa."
	case VNPayWrongOTP:
		return "Quý khách nhập sai mật khẩu xác thực giao dịch (OTP)."
	case VNPayCancelled:
		return "Khách hàng hủy giao dịch"
	case VNPayInsufficientFunds:
		return "Tài khoản của quý khách không đủ số dư để thực hiện giao dịch."
	case VNPayLimitExceeded:
		return "Tài khoản của Quý khách đã vượt quá hạn mức giao dịch trong ngày."
	case VNPayBankMaintenance:
		return "Ngân hàng thanh toán đang bảo trì."
	case VNPayTooManyPasswordAttempts:
		return "KH nhập sai mật khẩu thanh toán quá số lần quy định."
	case VNPayOther:
		return "Các lỗi khác"
	case VNPayUnknown:
		return "Lỗi không xác định"
	}
	return "Lỗi không xác định"
}

// SignVNPay computes vnp_SecureHash: HMAC-SHA512 over the sorted, url-encoded vnp_*
// parameters except the hash fields themselves.
func SignVNPay(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if !strings.HasPrefix(k, "vnp_") || k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(params.Get(k)))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyVNPay(params url.Values, secret string) bool {
	got := strings.ToLower(params.Get("vnp_SecureHash"))
	if got == "" {
		return false
	}
	return hmac.Equal([]byte(got), []byte(SignVNPay(params, secret)))
}
