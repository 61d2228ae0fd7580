package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyTTL is how long a committed apply result can be replayed.
const IdempotencyTTL = 24 * time.Hour

// IdempotencyRecord is the stored result of an apply made with an
// Idempotency-Key. It is written in the same store transaction as the
// ledger entry it describes.
type IdempotencyRecord struct {
	Key           string
	TransactionID uuid.UUID
	ResponseJSON  []byte
	CreatedAt     time.Time
	ExpiresAt     time.Time
}

// NewIdempotencyRecord creates a record that expires IdempotencyTTL after now.
func NewIdempotencyRecord(key string, txnID uuid.UUID, responseJSON []byte, now time.Time) *IdempotencyRecord {
	return &IdempotencyRecord{
		Key:           key,
		TransactionID: txnID,
		ResponseJSON:  responseJSON,
		CreatedAt:     now,
		ExpiresAt:     now.Add(IdempotencyTTL),
	}
}

// Expired reports whether the record can no longer be replayed at now.
func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// BuildApplyIdempotencyKey scopes a client Idempotency-Key to one wallet.
func BuildApplyIdempotencyKey(walletID uuid.UUID, key string) string {
	return "apply:" + walletID.String() + ":" + key
}
