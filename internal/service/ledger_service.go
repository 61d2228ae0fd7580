package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"
	"ewallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	txRepo     ports.TransactionRepository
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	idempRepo  ports.IdempotencyRepository // optional; without it keys are ignored
	idempCache ports.IdempotencyCache      // optional
	publisher  ports.EventPublisher        // optional
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl. idempRepo, idempCache
// and publisher may be nil.
func NewLedgerService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	transactor ports.DBTransactor,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txRepo:     txRepo,
		walletRepo: walletRepo,
		transactor: transactor,
		idempRepo:  idempRepo,
		idempCache: idempCache,
		publisher:  publisher,
		log:        log,
	}
}

// ApplyTransaction records a transaction and moves the wallet balance in one
// store transaction. The wallet row stays locked from the balance check until
// commit. With an idempotency key the replay record is written in the same
// store transaction, and the key is checked again once the wallet is locked,
// so concurrent retries apply at most once.
func (s *LedgerServiceImpl) ApplyTransaction(ctx context.Context, req ports.ApplyTransactionRequest) (*domain.Transaction, error) {
	if err := domain.ValidateTransaction(req.Type, req.Amount, req.Comment); err != nil {
		return nil, apperror.ErrInvalidTransaction(err)
	}

	var idempKey string
	if req.IdempotencyKey != "" && s.idempRepo != nil {
		idempKey = domain.BuildApplyIdempotencyKey(req.WalletID, req.IdempotencyKey)

		// Layer 1: Redis
		if txn := s.cachedReplay(ctx, idempKey); txn != nil {
			return txn, nil
		}
		// Layer 2: store record
		rec, err := s.idempRepo.Get(ctx, idempKey)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency check: %w", err))
		}
		if rec != nil {
			return s.replay(idempKey, rec.ResponseJSON)
		}
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	// A retry that waited on the wallet lock sees the winner's record here.
	if idempKey != "" {
		rec, err := s.idempRepo.GetInTx(ctx, dbTx, idempKey)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("idempotency check: %w", err))
		}
		if rec != nil {
			return s.replay(idempKey, rec.ResponseJSON)
		}
	}

	now := time.Now().UTC()
	txn, err := domain.NewTransaction(wallet.ID, req.Type, req.Amount, req.Comment, now)
	if err != nil {
		return nil, mapLedgerError(err)
	}
	if err := wallet.Apply(txn.Type, txn.Amount); err != nil {
		return nil, mapLedgerError(err)
	}
	wallet.UpdatedAt = now

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, wallet.Balance); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create transaction: %w", err))
	}

	var respJSON []byte
	if idempKey != "" {
		respJSON, err = json.Marshal(txn)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("marshal idempotency entry: %w", err))
		}
		rec := domain.NewIdempotencyRecord(idempKey, txn.ID, respJSON, now)
		if err := s.idempRepo.Create(ctx, dbTx, rec); err != nil {
			if errors.Is(err, domain.ErrIdempotencyKeyInUse) {
				return nil, apperror.ErrCommitFailed(err)
			}
			return nil, apperror.ErrDatabaseError(fmt.Errorf("save idempotency entry: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrCommitFailed(fmt.Errorf("commit tx: %w", err))
	}

	if idempKey != "" && s.idempCache != nil {
		if err := s.idempCache.Set(ctx, idempKey, respJSON, domain.IdempotencyTTL); err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency entry")
		}
	}
	s.publish(ctx, domain.NewLedgerEvent(domain.EventTransactionApplied, wallet, txn, now))

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("type", string(txn.Type)).
		Int64("amount", txn.Amount).
		Int64("balance", wallet.Balance).
		Msg("transaction applied")

	return txn, nil
}

// ReverseTransaction deletes a transaction and undoes its balance effect.
// An income that the current balance no longer covers stays in place.
func (s *LedgerServiceImpl) ReverseTransaction(ctx context.Context, id uuid.UUID) error {
	existing, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if existing == nil {
		return apperror.ErrNotFound("transaction")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock the owning wallet first, then re-read the transaction under the lock.
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, existing.WalletID)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("transaction")
	}
	txn, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("lock transaction: %w", err))
	}
	if txn == nil {
		return apperror.ErrNotFound("transaction")
	}

	if err := wallet.Reverse(txn); err != nil {
		return mapLedgerError(err)
	}
	now := time.Now().UTC()
	wallet.UpdatedAt = now

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, wallet.Balance); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
	}
	if err := s.txRepo.Delete(ctx, dbTx, txn.ID); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("delete transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.ErrCommitFailed(fmt.Errorf("commit tx: %w", err))
	}

	s.publish(ctx, domain.NewLedgerEvent(domain.EventTransactionReversed, wallet, txn, now))

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("type", string(txn.Type)).
		Int64("amount", txn.Amount).
		Int64("balance", wallet.Balance).
		Msg("transaction reversed")

	return nil
}

// GetTransaction returns a single transaction.
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}

// ListTransactions returns a page of transactions, newest first, and the total count.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > ports.MaxPageSize {
		params.PageSize = ports.DefaultPageSize
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// cachedReplay returns the Redis copy of an earlier apply with the same key.
// Cache errors and corrupt entries fall through to the database check.
func (s *LedgerServiceImpl) cachedReplay(ctx context.Context, key string) *domain.Transaction {
	if s.idempCache == nil {
		return nil
	}
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
		return nil
	}
	if cached == nil {
		return nil
	}

	var txn domain.Transaction
	if err := json.Unmarshal(cached, &txn); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("corrupt cached idempotency entry, falling through to DB")
		return nil
	}
	s.log.Info().Str("key", key).Str("tx_id", txn.ID.String()).Msg("idempotent replay")
	return &txn
}

// replay decodes a stored apply result.
func (s *LedgerServiceImpl) replay(key string, respJSON []byte) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := json.Unmarshal(respJSON, &txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal idempotency entry: %w", err))
	}
	s.log.Info().Str("key", key).Str("tx_id", txn.ID.String()).Msg("idempotent replay")
	return &txn, nil
}

func (s *LedgerServiceImpl) publish(ctx context.Context, event domain.LedgerEvent) {
	publishEvent(ctx, s.publisher, event, s.log)
}

// publishEvent is shared by the services. The change is already committed,
// so failures are only logged.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, event domain.LedgerEvent, log zerolog.Logger) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Warn().Err(err).
			Str("event", string(event.Type)).
			Str("wallet_id", event.WalletID.String()).
			Msg("failed to publish ledger event")
	}
}

// mapLedgerError converts domain rule violations into API errors.
func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		return apperror.ErrInsufficientBalance(err)
	case errors.Is(err, domain.ErrIrreversibleTransaction):
		return apperror.ErrIrreversibleTransaction(err)
	case errors.Is(err, domain.ErrInvalidTransaction):
		return apperror.ErrInvalidTransaction(err)
	default:
		return apperror.InternalError(err)
	}
}
