package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Wallet holds a non-negative balance in the smallest currency unit.
// Balance changes only through Apply and Reverse.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet builds a wallet with a zero balance. A blank name is replaced
// by "Wallet <uuid>".
func NewWallet(name string, now time.Time) *Wallet {
	if name == "" {
		name = DefaultWalletName()
	}
	return &Wallet{
		ID:        uuid.New(),
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DefaultWalletName generates the placeholder name for unnamed wallets.
func DefaultWalletName() string {
	return "Wallet " + uuid.NewString()
}

// Rename replaces the name and recomputes the slug. Balance is untouched.
func (w *Wallet) Rename(name string, now time.Time) {
	if name == "" {
		name = DefaultWalletName()
	}
	w.Name = name
	w.Slug = Slugify(name)
	w.UpdatedAt = now
}

// Apply adjusts the balance for a new transaction of the given type.
// The wallet is left unchanged when an error is returned.
func (w *Wallet) Apply(txType TransactionType, amount int64) error {
	if !txType.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidTransaction, txType)
	}
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidTransaction, amount)
	}

	switch txType {
	case TransactionTypeIncome:
		if amount > math.MaxInt64-w.Balance {
			return fmt.Errorf("%w: balance overflow", ErrInvalidTransaction)
		}
		w.Balance += amount
	case TransactionTypeOutcome:
		if w.Balance < amount {
			return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientBalance, w.Balance, amount)
		}
		w.Balance -= amount
	}
	return nil
}

// Reverse undoes the balance effect of t. It fails with
// ErrIrreversibleTransaction, leaving the wallet unchanged, when the
// reversal would make the balance negative.
func (w *Wallet) Reverse(t *Transaction) error {
	if !t.IsReversibleAgainst(w) {
		return fmt.Errorf("%w: %s of %d against balance %d",
			ErrIrreversibleTransaction, t.Type, t.Amount, w.Balance)
	}

	switch t.Type {
	case TransactionTypeIncome:
		w.Balance -= t.Amount
	case TransactionTypeOutcome:
		w.Balance += t.Amount
	}
	return nil
}
