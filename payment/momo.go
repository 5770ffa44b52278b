package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// MoMoResult enumerates MoMo resultCode values.
type MoMoResult int

const (
	MoMoUnknown MoMoResult = iota
	MoMoSuccess
	MoMoAuthorized
	MoMoPending
	MoMoInsufficientFunds
	MoMoRejectedByIssuer
	MoMoCancelled
	MoMoLimitExceeded
	MoMoExpired
	MoMoUserDenied
	MoMoAccountLocked
	MoMoCancelledByMerchant
	MoMoPromotionRestricted
)

func ParseMoMoCode(code string) MoMoResult {
	switch strings.TrimSpace(code) {
	case "0":
		return MoMoSuccess
	case "9000":
		return MoMoAuthorized
	case "1000":
		return MoMoPending
	case "1001":
		return MoMoInsufficientFunds
	case "1002":
		return MoMoRejectedByIssuer
	case "1003":
		return MoMoCancelled
	case "1004":
		return MoMoLimitExceeded
	case "1005":
		return MoMoExpired
	case "1006":
		return MoMoUserDenied
	case "1007":
		return MoMoAccountLocked
	case "1017":
		return MoMoCancelledByMerchant
	case "1026":
		return MoMoPromotionRestricted
	default:
		return MoMoUnknown
	}
}

func (r MoMoResult) Provider() string { return ProviderMoMo }

// Success accepts both captured (0) and authorized (9000) payments.
func (r MoMoResult) Success() bool {
	return r == MoMoSuccess || r == MoMoAuthorized
}

func (r MoMoResult) Message() string {
	switch r {
	case MoMoSuccess:
		return "Giao dịch thành công."
	case MoMoAuthorized:
		return "Giao dịch đã được xác nhận thành công."
	case MoMoPending:
		return "Giao dịch đã được khởi tạo, chờ người dùng xác nhận thanh toán."
	case MoMoInsufficientFunds:
		return "Giao dịch thanh toán thất bại do tài khoản người dùng không đủ tiền."
	case MoMoRejectedByIssuer:
		return "Giao dịch bị từ chối bởi nhà phát hành tài khoản thanh toán."
	case MoMoCancelled:
		return "Giao dịch đã bị hủy."
	case MoMoLimitExceeded:
		return "Giao dịch thất bại do số tiền thanh toán vượt quá hạn mức thanh toán của người dùng."
	case MoMoExpired:
		return "Giao dịch thất bại do url hoặc QR code đã hết hạn."
	case MoMoUserDenied:
		return "Giao dịch thất bại do người dùng đã từ chối xác nhận thanh toán."
	case MoMoAccountLocked:
		return "Giao dịch bị từ chối vì tài khoản người dùng đang ở trạng thái tạm khóa."
	case MoMoCancelledByMerchant:
		return "Giao dịch bị hủy bởi đối tác."
	case MoMoPromotionRestricted:
		return "Giao dịch bị hạn chế theo thể lệ chương trình khuyến mãi."
	case MoMoUnknown:
		return "Giao dịch thất bại."
	}
	return "Giao dịch thất bại."
}

var momoSignatureFields = []string{
	"amount", "extraData", "message", "orderId", "orderInfo", "orderType",
	"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
}

// SignMoMo computes the HMAC-SHA256 signature MoMo attaches to its redirect.
func SignMoMo(params url.Values, accessKey, secretKey string) string {
	var b strings.Builder
	b.WriteString("accessKey=")
	b.WriteString(accessKey)
	for _, f := range momoSignatureFields {
		b.WriteByte('&')
		b.WriteString(f)
		b.WriteByte('=')
		b.WriteString(params.Get(f))
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyMoMo(params url.Values, accessKey, secretKey string) bool {
	got := strings.ToLower(params.Get("signature"))
	if got == "" {
		return false
	}
	return hmac.Equal([]byte(got), []byte(SignMoMo(params, accessKey, secretKey)))
}
