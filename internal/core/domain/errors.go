package domain

import "errors"

// Ledger rule violations. Services map them to apperror codes.
var (
	ErrInvalidTransaction      = errors.New("invalid transaction")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrIrreversibleTransaction = errors.New("transaction is irreversible")
	ErrDuplicateName           = errors.New("wallet name already exists")
)

// ErrIdempotencyKeyInUse is returned by stores when a live record already holds the key.
var ErrIdempotencyKeyInUse = errors.New("idempotency key already recorded")
