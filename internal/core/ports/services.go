package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"ewallet/internal/core/domain"

	"github.com/google/uuid"
)

// IdempotencyCache is the Redis fast path in front of IdempotencyRepository.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher delivers ledger events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}

// --- Service Ports (Business Logic) ---

// LedgerService applies and reverses transactions atomically.
type LedgerService interface {
	ApplyTransaction(ctx context.Context, req ApplyTransactionRequest) (*domain.Transaction, error)
	ReverseTransaction(ctx context.Context, id uuid.UUID) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// ApplyTransactionRequest holds validated input for applying a transaction.
type ApplyTransactionRequest struct {
	WalletID       uuid.UUID
	Type           domain.TransactionType
	Amount         int64
	Comment        string
	IdempotencyKey string // optional
}

// WalletService defines wallet lifecycle operations. Wallets are addressed by slug.
type WalletService interface {
	CreateWallet(ctx context.Context, name string) (*domain.Wallet, error)
	RenameWallet(ctx context.Context, slug, name string) (*domain.Wallet, error)
	DeleteWallet(ctx context.Context, slug string) error
	GetWallet(ctx context.Context, slug string) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
}

// AuditService records write requests without blocking the caller.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
