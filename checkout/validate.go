package checkout

import (
	"regexp"
	"strings"

	"storefront-service/model"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\d{10,11}$`)
)

func ValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

func ValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidateForm runs the synchronous checks and returns one message per failing field.
// An empty map means the form may be submitted.
func ValidateForm(req model.CheckoutRequest) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(req.FullName) == "" {
		errs["fullName"] = "Vui lòng nhập họ tên"
	}

	switch {
	case strings.TrimSpace(req.Phone) == "":
		errs["phone"] = "Vui lòng nhập số điện thoại"
	case !ValidPhone(req.Phone):
		errs["phone"] = "Số điện thoại không hợp lệ (10-11 chữ số)"
	}

	switch {
	case strings.TrimSpace(req.Email) == "":
		errs["email"] = "Vui lòng nhập email"
	case !ValidEmail(req.Email):
		errs["email"] = "Email không hợp lệ"
	}

	if strings.TrimSpace(req.Address) == "" {
		errs["address"] = "Vui lòng nhập địa chỉ"
	}
	if strings.TrimSpace(req.City) == "" {
		errs["city"] = "Vui lòng chọn tỉnh/thành phố"
	}

	if _, err := model.ParsePaymentMethod(req.PaymentMethod); err != nil {
		errs["paymentMethod"] = "Vui lòng chọn phương thức thanh toán"
	}

	return errs
}
