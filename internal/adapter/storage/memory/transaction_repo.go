package memory

import (
	"context"
	"fmt"
	"sort"

	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository on a Store.
type TransactionRepo struct {
	store *Store
}

// Create stages a new transaction on tx.
func (r *TransactionRepo) Create(_ context.Context, tx pgx.Tx, t *domain.Transaction) error {
	st, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, exists := r.store.transactions[t.ID]
	r.store.mu.RUnlock()
	if exists {
		return fmt.Errorf("transaction %s already exists", t.ID)
	}
	st.created = append(st.created, *t)
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// GetByIDForUpdate reads the transaction as seen by tx.
func (r *TransactionRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Transaction, error) {
	st, err := r.store.txFor(tx)
	if err != nil {
		return nil, err
	}
	if _, gone := st.deleted[id]; gone {
		return nil, nil
	}
	for _, t := range st.created {
		if t.ID == id {
			return &t, nil
		}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Delete stages a deletion on tx.
func (r *TransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	t, err := r.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("transaction not found: %s", id)
	}
	st, _ := r.store.txFor(tx)
	st.deleted[id] = struct{}{}
	return nil
}

// List returns a filtered page of committed transactions, newest first.
func (r *TransactionRepo) List(_ context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.store.mu.RLock()
	var result []domain.Transaction
	for _, t := range r.store.transactions {
		if params.WalletID != nil && t.WalletID != *params.WalletID {
			continue
		}
		if params.Type != nil && t.Type != *params.Type {
			continue
		}
		result = append(result, t)
	}
	r.store.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	total := int64(len(result))

	// Simple pagination
	start := params.Offset()
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if params.PageSize <= 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}
