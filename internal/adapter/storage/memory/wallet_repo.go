package memory

import (
	"context"
	"fmt"
	"sort"

	"ewallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository on a Store.
type WalletRepo struct {
	store *Store
}

// Create inserts a wallet. Name or slug collisions return domain.ErrDuplicateName.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	return r.store.exclusive(ctx, func() error {
		if err := r.checkUnique(w); err != nil {
			return err
		}
		r.store.wallets[w.ID] = *w
		return nil
	})
}

func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	w, ok := r.store.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WalletRepo) GetBySlug(_ context.Context, slug string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, w := range r.store.wallets {
		if w.Slug == slug {
			return &w, nil
		}
	}
	return nil, nil
}

// List returns all wallets ordered by name.
func (r *WalletRepo) List(_ context.Context) ([]domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wallets := make([]domain.Wallet, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Name < wallets[j].Name })
	return wallets, nil
}

// Update persists name and slug; the stored balance is kept.
func (r *WalletRepo) Update(ctx context.Context, w *domain.Wallet) error {
	return r.store.exclusive(ctx, func() error {
		current, ok := r.store.wallets[w.ID]
		if !ok {
			return fmt.Errorf("wallet not found: %s", w.ID)
		}
		if err := r.checkUnique(w); err != nil {
			return err
		}
		current.Name = w.Name
		current.Slug = w.Slug
		current.UpdatedAt = w.UpdatedAt
		r.store.wallets[w.ID] = current
		return nil
	})
}

// Delete removes the wallet and its transactions.
func (r *WalletRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.exclusive(ctx, func() error {
		if _, ok := r.store.wallets[id]; !ok {
			return fmt.Errorf("wallet not found: %s", id)
		}
		delete(r.store.wallets, id)
		for txID, txn := range r.store.transactions {
			if txn.WalletID == id {
				delete(r.store.transactions, txID)
			}
		}
		return nil
	})
}

// GetByIDForUpdate reads the wallet as seen by tx, including staged balance changes.
func (r *WalletRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	st, err := r.store.txFor(tx)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	w, ok := r.store.wallets[id]
	r.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if balance, staged := st.balances[id]; staged {
		w.Balance = balance
	}
	return &w, nil
}

// UpdateBalance stages a balance write on tx.
func (r *WalletRepo) UpdateBalance(_ context.Context, tx pgx.Tx, walletID uuid.UUID, balance int64) error {
	st, err := r.store.txFor(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, ok := r.store.wallets[walletID]
	r.store.mu.RUnlock()
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	st.balances[walletID] = balance
	return nil
}

// checkUnique must run with the store write lock held.
func (r *WalletRepo) checkUnique(w *domain.Wallet) error {
	for id, other := range r.store.wallets {
		if id == w.ID {
			continue
		}
		if other.Name == w.Name || other.Slug == w.Slug {
			return fmt.Errorf("wallet %q: %w", w.Name, domain.ErrDuplicateName)
		}
	}
	return nil
}
