package repository

import (
	"context"
	"database/sql"
)

type PaymentCallback struct {
	Provider   string
	OrderID    string
	ResultCode string
	Success    bool
	Verified   bool
	RawQuery   string
}

// InsertPaymentCallback keeps an audit row for every provider return, verified or not.
func InsertPaymentCallback(ctx context.Context, db *sql.DB, cb PaymentCallback) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO payment_callbacks (provider, order_id, result_code, success, verified, raw_query)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, cb.Provider, cb.OrderID, cb.ResultCode, cb.Success, cb.Verified, cb.RawQuery)
	return err
}
