package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var ErrAttemptNotFound = errors.New("checkout_attempt_not_found")

type CheckoutAttempt struct {
	ID            int64
	UserID        int
	OrderID       string
	PaymentMethod int
	TotalAmount   int64
	DiscountCode  string
	ReserveOnly   bool
	State         string
	Message       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InsertCheckoutAttempt records a new attempt and returns its id.
func InsertCheckoutAttempt(ctx context.Context, db *sql.DB, a CheckoutAttempt) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO checkout_attempts (user_id, payment_method, total_amount, discount_code, reserve_only, state)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, a.UserID, a.PaymentMethod, a.TotalAmount, a.DiscountCode, a.ReserveOnly, a.State).Scan(&id)
	return id, err
}

// UpdateAttemptState sets the state of an attempt; orderID is stored once it is known.
func UpdateAttemptState(ctx context.Context, db *sql.DB, id int64, state, orderID, message string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE checkout_attempts
		SET state = $1,
		    order_id = COALESCE(NULLIF($2, ''), order_id),
		    message = $3,
		    updated_at = NOW()
		WHERE id = $4
	`, state, orderID, message, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

func GetAttemptByOrderID(ctx context.Context, db *sql.DB, orderID string) (CheckoutAttempt, error) {
	var a CheckoutAttempt
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, order_id, payment_method, total_amount, discount_code, reserve_only, state, message, created_at, updated_at
		FROM checkout_attempts
		WHERE order_id = $1
	`, orderID).Scan(&a.ID, &a.UserID, &a.OrderID, &a.PaymentMethod, &a.TotalAmount,
		&a.DiscountCode, &a.ReserveOnly, &a.State, &a.Message, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return CheckoutAttempt{}, ErrAttemptNotFound
	}
	return a, err
}

// TransitionAttemptByOrderID moves the attempt to state `to` only when it currently
// sits in one of `from`. It reports whether a row changed.
func TransitionAttemptByOrderID(ctx context.Context, db *sql.DB, orderID string, from []string, to, message string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE checkout_attempts
		SET state = $1, message = $2, updated_at = NOW()
		WHERE order_id = $3 AND state = ANY($4)
	`, to, message, orderID, pq.Array(from))
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
