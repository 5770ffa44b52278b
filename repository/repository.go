package repository

import (
	"context"
	"database/sql"
)

// Ledger binds the ledger functions to one database handle.
type Ledger struct {
	DB *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{DB: db}
}

func (l *Ledger) InsertAttempt(ctx context.Context, a CheckoutAttempt) (int64, error) {
	return InsertCheckoutAttempt(ctx, l.DB, a)
}

func (l *Ledger) UpdateAttempt(ctx context.Context, id int64, state, orderID, message string) error {
	return UpdateAttemptState(ctx, l.DB, id, state, orderID, message)
}

func (l *Ledger) AttemptByOrderID(ctx context.Context, orderID string) (CheckoutAttempt, error) {
	return GetAttemptByOrderID(ctx, l.DB, orderID)
}

func (l *Ledger) Transition(ctx context.Context, orderID string, from []string, to, message string) (bool, error) {
	return TransitionAttemptByOrderID(ctx, l.DB, orderID, from, to, message)
}

func (l *Ledger) RecordCallback(ctx context.Context, cb PaymentCallback) error {
	return InsertPaymentCallback(ctx, l.DB, cb)
}
