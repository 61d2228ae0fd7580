package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"

	"ewallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
// Getters return (nil, nil) when the wallet does not exist.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	// Update persists name and slug. Balance is not written.
	Update(ctx context.Context, wallet *domain.Wallet) error
	// Delete removes the wallet and cascades its transactions.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error
}

// TransactionRepository defines persistence operations for transactions.
// Getters return (nil, nil) when the transaction does not exist.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error)
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// Pagination limits shared by the list endpoints and services.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	WalletID *uuid.UUID
	Type     *domain.TransactionType
	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page.
func (p TransactionListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// AuditRepository persists request audit records.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// IdempotencyRepository persists replay records for idempotent applies.
// Create and GetInTx run inside the apply transaction. Getters return
// (nil, nil) when no live record exists.
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, rec *domain.IdempotencyRecord) error
	Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
	GetInTx(ctx context.Context, tx pgx.Tx, key string) (*domain.IdempotencyRecord, error)
}

// DBTransactor provides database transaction management.
// Nothing written through the returned tx is visible until Commit succeeds.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
