package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a ledger event. It doubles as the AMQP routing key.
type EventType string

const (
	EventWalletCreated       EventType = "wallet.created"
	EventWalletDeleted       EventType = "wallet.deleted"
	EventTransactionApplied  EventType = "transaction.applied"
	EventTransactionReversed EventType = "transaction.reversed"
)

// LedgerEvent is published after a committed change.
type LedgerEvent struct {
	ID          uuid.UUID    `json:"id"`
	Type        EventType    `json:"type"`
	WalletID    uuid.UUID    `json:"wallet_id"`
	Balance     int64        `json:"balance"`
	Transaction *Transaction `json:"transaction,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// NewLedgerEvent snapshots the wallet balance after the change.
func NewLedgerEvent(eventType EventType, w *Wallet, t *Transaction, now time.Time) LedgerEvent {
	return LedgerEvent{
		ID:          uuid.New(),
		Type:        eventType,
		WalletID:    w.ID,
		Balance:     w.Balance,
		Transaction: t,
		OccurredAt:  now,
	}
}
