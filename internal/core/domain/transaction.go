package domain

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TransactionType is the direction of a balance change.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeOutcome TransactionType = "outcome"
)

// MaxCommentLength is the comment limit in characters.
const MaxCommentLength = 2500

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeOutcome
}

// Transaction is an applied ledger entry. It is never edited; reversing it
// deletes the record.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	Type      TransactionType `json:"transaction_type"`
	Amount    int64           `json:"amount"` // In smallest unit
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewTransaction validates the fields of a proposed transaction and returns it
// with a fresh id. It does not touch any wallet.
func NewTransaction(walletID uuid.UUID, txType TransactionType, amount int64, comment string, now time.Time) (*Transaction, error) {
	if err := ValidateTransaction(txType, amount, comment); err != nil {
		return nil, err
	}
	return &Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      txType,
		Amount:    amount,
		Comment:   comment,
		CreatedAt: now,
	}, nil
}

// ValidateTransaction checks the type, amount and comment of a proposed transaction.
func ValidateTransaction(txType TransactionType, amount int64, comment string) error {
	if !txType.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidTransaction, txType)
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidTransaction, amount)
	}
	if n := utf8.RuneCountInString(comment); n > MaxCommentLength {
		return fmt.Errorf("%w: comment has %d characters, max %d", ErrInvalidTransaction, n, MaxCommentLength)
	}
	return nil
}

// IsReversibleAgainst reports whether deleting t keeps w's balance valid.
// Only the current balance is considered.
func (t *Transaction) IsReversibleAgainst(w *Wallet) bool {
	switch t.Type {
	case TransactionTypeIncome:
		return w.Balance >= t.Amount
	case TransactionTypeOutcome:
		return t.Amount <= math.MaxInt64-w.Balance
	default:
		return false
	}
}
