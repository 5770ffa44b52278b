package checkout

import (
	"strings"

	"storefront-service/backend"
	"storefront-service/model"

	"github.com/shopspring/decimal"
)

// ComputeDiscount applies a rule to subtotal: percent rules give floor(S*D/100) capped
// at maxDiscount when the cap is positive; amount rules give min(value, S).
func ComputeDiscount(subtotal int64, typ model.DiscountType, value, maxDiscount int64) int64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}

	var amount int64
	switch typ {
	case model.DiscountPercent:
		amount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(value)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		if maxDiscount > 0 && amount > maxDiscount {
			amount = maxDiscount
		}
	case model.DiscountAmount:
		amount = value
	}

	if amount > subtotal {
		amount = subtotal
	}
	return amount
}

// appliedFrom converts the backend's answer; the backend's computed amount always wins.
func appliedFrom(d backend.Discount, code string, subtotal int64) model.AppliedDiscount {
	typ := model.DiscountAmount
	if d.IsPercent() {
		typ = model.DiscountPercent
	}

	applied := model.AppliedDiscount{
		Code:        strings.ToUpper(strings.TrimSpace(code)),
		Type:        typ,
		Value:       d.Value.IntPart(),
		MaxDiscount: d.MaxDiscount.IntPart(),
	}
	if d.Code != "" {
		applied.Code = d.Code
	}

	if d.DiscountAmount.IsPositive() {
		applied.ComputedAmount = d.DiscountAmount.IntPart()
	} else {
		applied.ComputedAmount = ComputeDiscount(subtotal, typ, applied.Value, applied.MaxDiscount)
	}
	if applied.ComputedAmount > subtotal {
		applied.ComputedAmount = subtotal
	}
	return applied
}
