package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports"
	"ewallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	publisher  ports.EventPublisher // optional
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl. publisher may be nil.
func NewWalletService(walletRepo ports.WalletRepository, publisher ports.EventPublisher, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		publisher:  publisher,
		log:        log,
	}
}

// CreateWallet creates a wallet with a zero balance.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, name string) (*domain.Wallet, error) {
	wallet := domain.NewWallet(name, time.Now().UTC())
	if wallet.Slug == "" {
		return nil, apperror.Validation("name must contain at least one letter or digit")
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, mapWalletWriteError(err, "create wallet")
	}

	publishEvent(ctx, s.publisher, domain.NewLedgerEvent(domain.EventWalletCreated, wallet, nil, wallet.CreatedAt), s.log)

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("slug", wallet.Slug).
		Msg("wallet created")

	return wallet, nil
}

// RenameWallet changes the name and slug of a wallet. The balance is untouched.
func (s *WalletServiceImpl) RenameWallet(ctx context.Context, slug, name string) (*domain.Wallet, error) {
	wallet, err := s.GetWallet(ctx, slug)
	if err != nil {
		return nil, err
	}

	wallet.Rename(name, time.Now().UTC())
	if wallet.Slug == "" {
		return nil, apperror.Validation("name must contain at least one letter or digit")
	}

	if err := s.walletRepo.Update(ctx, wallet); err != nil {
		return nil, mapWalletWriteError(err, "update wallet")
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("old_slug", slug).
		Str("slug", wallet.Slug).
		Msg("wallet renamed")

	return wallet, nil
}

// DeleteWallet removes a wallet together with its transactions.
// No reversal checks run for the removed transactions.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, slug string) error {
	wallet, err := s.GetWallet(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.walletRepo.Delete(ctx, wallet.ID); err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("delete wallet: %w", err))
	}

	publishEvent(ctx, s.publisher, domain.NewLedgerEvent(domain.EventWalletDeleted, wallet, nil, time.Now().UTC()), s.log)

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("slug", wallet.Slug).
		Int64("balance", wallet.Balance).
		Msg("wallet deleted")

	return nil
}

// GetWallet looks a wallet up by slug.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, slug string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}

// ListWallets returns every wallet ordered by name.
func (s *WalletServiceImpl) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

func mapWalletWriteError(err error, op string) error {
	if errors.Is(err, domain.ErrDuplicateName) {
		return apperror.ErrDuplicateName(err)
	}
	return apperror.ErrDatabaseError(fmt.Errorf("%s: %w", op, err))
}
