package memory

import (
	"context"
	"fmt"

	"ewallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRepo implements ports.IdempotencyRepository on a Store.
// Records become visible to other callers only when their tx commits.
type IdempotencyRepo struct {
	store *Store
}

// Create stages rec on tx.
func (r *IdempotencyRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.IdempotencyRecord) error {
	st, err := r.store.txFor(tx)
	if err != nil {
		return err
	}
	existing, err := r.GetInTx(ctx, tx, rec.Key)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("stage key %q: %w", rec.Key, domain.ErrIdempotencyKeyInUse)
	}
	st.records = append(st.records, *rec)
	return nil
}

func (r *IdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	return r.committed(key), nil
}

// GetInTx also sees records staged on tx.
func (r *IdempotencyRepo) GetInTx(_ context.Context, tx pgx.Tx, key string) (*domain.IdempotencyRecord, error) {
	st, err := r.store.txFor(tx)
	if err != nil {
		return nil, err
	}
	for _, rec := range st.records {
		if rec.Key == key {
			return &rec, nil
		}
	}
	return r.committed(key), nil
}

func (r *IdempotencyRepo) committed(key string) *domain.IdempotencyRecord {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.idempotency[key]
	if !ok || rec.Expired(r.store.now()) {
		return nil
	}
	return &rec
}
