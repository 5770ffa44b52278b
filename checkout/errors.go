package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition    = errors.New("illegal transition of checkout state")
	ErrDiscountCodeRequired = errors.New("discount code is required")
	ErrForbidden            = errors.New("checkout attempt belongs to another user")
	ErrNotBankTransfer      = errors.New("order was not placed with bank transfer")
)

// ValidationError carries per-field messages; nothing was sent to the backend.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout form invalid: %d field(s)", len(e.Fields))
}

// SubmitError is a failed backend step. Message is safe to show to the shopper.
type SubmitError struct {
	Stage   State
	OrderID string
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("checkout %s failed: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
