package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func vnpayParams() url.Values {
	return url.Values{
		"vnp_Amount":        {"20000000"},
		"vnp_BankCode":      {"NCB"},
		"vnp_OrderInfo":     {"Thanh toan don hang 42"},
		"vnp_PayDate":       {"20240115103000"},
		"vnp_ResponseCode":  {"00"},
		"vnp_TmnCode":       {"DEMO"},
		"vnp_TransactionNo": {"14250000"},
		"vnp_TxnRef":        {"42"},
	}
}

func TestVerifyVNPay(t *testing.T) {
	q := vnpayParams()
	q.Set("vnp_SecureHashType", "HmacSHA512")
	q.Set("vnp_SecureHash", SignVNPay(q, "secret"))

	assert.True(t, VerifyVNPay(q, "secret"))
	assert.False(t, VerifyVNPay(q, "other"))

	q.Set("vnp_Amount", "1")
	assert.False(t, VerifyVNPay(q, "secret"), "tampered amount must not verify")
}

func TestVerifyVNPay_UppercaseHash(t *testing.T) {
	q := vnpayParams()
	sig := SignVNPay(q, "secret")
	q.Set("vnp_SecureHash", strings.ToUpper(sig))
	assert.True(t, VerifyVNPay(q, "secret"))
}

func TestVerifyVNPay_MissingHash(t *testing.T) {
	assert.False(t, VerifyVNPay(vnpayParams(), "secret"))
}

func TestSignVNPay_IgnoresForeignAndEmptyParams(t *testing.T) {
	q := vnpayParams()
	base := SignVNPay(q, "secret")

	q.Set("utm_source", "mail")
	q.Set("vnp_CardType", "")
	assert.Equal(t, base, SignVNPay(q, "secret"))
}

func momoParams() url.Values {
	return url.Values{
		"partnerCode":  {"MOMO"},
		"orderId":      {"42"},
		"requestId":    {"42-1700000000"},
		"amount":       {"200000"},
		"orderInfo":    {"Thanh toan don hang 42"},
		"orderType":    {"momo_wallet"},
		"transId":      {"3100000000"},
		"resultCode":   {"0"},
		"message":      {"Successful."},
		"payType":      {"qr"},
		"responseTime": {"1705289400000"},
		"extraData":    {""},
	}
}

func TestVerifyMoMo(t *testing.T) {
	q := momoParams()
	q.Set("signature", SignMoMo(q, "access", "secret"))

	assert.True(t, VerifyMoMo(q, "access", "secret"))
	assert.False(t, VerifyMoMo(q, "other-access", "secret"))

	q.Set("resultCode", "1006")
	assert.False(t, VerifyMoMo(q, "access", "secret"))
}
