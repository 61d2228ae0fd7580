package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ewallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const idempotencySelect = `SELECT key, transaction_id, response_json, created_at, expires_at
	FROM idempotency_keys WHERE key = $1 AND expires_at > $2`

// IdempotencyRepo implements ports.IdempotencyRepository on the
// idempotency_keys table. Rows are written in the apply transaction, so a
// committed ledger entry and its replay record appear together.
type IdempotencyRepo struct {
	pool Pool
	now  func() time.Time
}

// NewIdempotencyRepo creates a new IdempotencyRepo.
func NewIdempotencyRepo(pool Pool) *IdempotencyRepo {
	return &IdempotencyRepo{pool: pool, now: time.Now}
}

// Create inserts a record within a database transaction. An expired row with
// the same key is replaced; a live one makes the insert fail with
// domain.ErrIdempotencyKeyInUse.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.IdempotencyRecord) error {
	query := `INSERT INTO idempotency_keys (key, transaction_id, response_json, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			transaction_id = EXCLUDED.transaction_id,
			response_json = EXCLUDED.response_json,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_keys.expires_at <= EXCLUDED.created_at`

	tag, err := tx.Exec(ctx, query, rec.Key, rec.TransactionID, rec.ResponseJSON, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert idempotency key %q: %w", rec.Key, domain.ErrIdempotencyKeyInUse)
	}
	return nil
}

// Get returns the live record for key, or nil when there is none.
func (r *IdempotencyRepo) Get(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	rec, err := scanIdempotencyRecord(r.pool.QueryRow(ctx, idempotencySelect, key, r.now()))
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}
	return rec, nil
}

// GetInTx is Get inside a database transaction. Called after the wallet row
// is locked, it sees any record committed by a request that held the lock before.
func (r *IdempotencyRepo) GetInTx(ctx context.Context, tx pgx.Tx, key string) (*domain.IdempotencyRecord, error) {
	rec, err := scanIdempotencyRecord(tx.QueryRow(ctx, idempotencySelect, key, r.now()))
	if err != nil {
		return nil, fmt.Errorf("get idempotency key in tx: %w", err)
	}
	return rec, nil
}

func scanIdempotencyRecord(row pgx.Row) (*domain.IdempotencyRecord, error) {
	rec := &domain.IdempotencyRecord{}
	err := row.Scan(&rec.Key, &rec.TransactionID, &rec.ResponseJSON, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}
