// Package payment interprets payment-provider return URLs.
package payment

// Result is one provider's interpretation of its callback result code.
type Result interface {
	Provider() string
	Success() bool
	Message() string
}
