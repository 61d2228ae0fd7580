// Package memory is an in-process storage driver with the same atomicity
// and serialization guarantees the ledger expects from PostgreSQL.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ewallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrForeignTx is returned when a repository receives a tx it did not begin.
var ErrForeignTx = errors.New("memory: transaction was not started by this store")

// Store holds committed wallets and transactions. Store transactions are
// serialized: Begin blocks until no other transaction is open, so every
// read-check-write inside one sees a stable balance.
type Store struct {
	sem chan struct{} // capacity 1, held from Begin until Commit/Rollback

	mu           sync.RWMutex // guards the committed maps
	wallets      map[uuid.UUID]domain.Wallet
	transactions map[uuid.UUID]domain.Transaction
	idempotency  map[string]domain.IdempotencyRecord

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sem:          make(chan struct{}, 1),
		wallets:      make(map[uuid.UUID]domain.Wallet),
		transactions: make(map[uuid.UUID]domain.Transaction),
		idempotency:  make(map[string]domain.IdempotencyRecord),
		now:          time.Now,
	}
}

// Wallets returns the wallet repository backed by this store.
func (s *Store) Wallets() *WalletRepo {
	return &WalletRepo{store: s}
}

// Transactions returns the transaction repository backed by this store.
func (s *Store) Transactions() *TransactionRepo {
	return &TransactionRepo{store: s}
}

// Idempotency returns the idempotency record repository backed by this store.
func (s *Store) Idempotency() *IdempotencyRepo {
	return &IdempotencyRepo{store: s}
}

// Begin implements ports.DBTransactor.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return &storeTx{
		store:    s,
		balances: make(map[uuid.UUID]int64),
		deleted:  make(map[uuid.UUID]struct{}),
	}, nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("begin transaction: %w", ctx.Err())
	}
}

func (s *Store) release() {
	<-s.sem
}

// exclusive runs a single-statement write outside any store transaction.
// It waits for open transactions like a row lock would.
func (s *Store) exclusive(ctx context.Context, fn func() error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// storeTx stages writes until Commit. It embeds pgx.Tx only to satisfy the
// interface; the SQL methods are never called by the memory repositories.
type storeTx struct {
	pgx.Tx

	store    *Store
	balances map[uuid.UUID]int64
	created  []domain.Transaction
	deleted  map[uuid.UUID]struct{}
	records  []domain.IdempotencyRecord
	done     bool
}

func (t *storeTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	defer t.store.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirror the CHECK and FK constraints of the SQL schema before touching anything.
	for id, balance := range t.balances {
		if _, ok := s.wallets[id]; !ok {
			return fmt.Errorf("commit: wallet %s does not exist", id)
		}
		if balance < 0 {
			return fmt.Errorf("commit: wallet %s balance would be %d", id, balance)
		}
	}
	for _, txn := range t.created {
		if _, ok := s.wallets[txn.WalletID]; !ok {
			return fmt.Errorf("commit: wallet %s does not exist", txn.WalletID)
		}
	}
	now := s.now()
	for _, rec := range t.records {
		if prev, ok := s.idempotency[rec.Key]; ok && !prev.Expired(now) {
			return fmt.Errorf("commit: key %q: %w", rec.Key, domain.ErrIdempotencyKeyInUse)
		}
	}

	for id, balance := range t.balances {
		w := s.wallets[id]
		w.Balance = balance
		s.wallets[id] = w
	}
	for _, txn := range t.created {
		s.transactions[txn.ID] = txn
	}
	for id := range t.deleted {
		delete(s.transactions, id)
	}
	for _, rec := range t.records {
		s.idempotency[rec.Key] = rec
	}
	return nil
}

func (t *storeTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.release()
	return nil
}

// txFor checks that tx is an open transaction of s.
func (s *Store) txFor(tx pgx.Tx) (*storeTx, error) {
	st, ok := tx.(*storeTx)
	if !ok || st.store != s {
		return nil, ErrForeignTx
	}
	if st.done {
		return nil, pgx.ErrTxClosed
	}
	return st, nil
}
