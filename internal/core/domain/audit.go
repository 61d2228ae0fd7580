package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionWalletCreate       AuditAction = "WALLET_CREATE"
	AuditActionWalletRename       AuditAction = "WALLET_RENAME"
	AuditActionWalletDelete       AuditAction = "WALLET_DELETE"
	AuditActionTransactionApply   AuditAction = "TRANSACTION_APPLY"
	AuditActionTransactionReverse AuditAction = "TRANSACTION_REVERSE"
)

// AuditLog records a single write request against the API.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	RequestID    string      `json:"request_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
