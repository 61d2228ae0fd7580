package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ewallet/internal/core/domain"
	"ewallet/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	publisher  *mocks.MockEventPublisher
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		publisher:  mocks.NewMockEventPublisher(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.publisher, zerolog.Nop())
	return d
}

func TestWalletService_CreateWallet_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, "Savings", w.Name)
			assert.Equal(t, "savings", w.Slug)
			assert.Equal(t, int64(0), w.Balance)
			return nil
		},
	)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev domain.LedgerEvent) error {
			assert.Equal(t, domain.EventWalletCreated, ev.Type)
			assert.Nil(t, ev.Transaction)
			return nil
		},
	)

	w, err := d.svc.CreateWallet(ctx, "Savings")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.Equal(t, "savings", w.Slug)
}

func TestWalletService_CreateWallet_DefaultName(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	w, err := d.svc.CreateWallet(ctx, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(w.Name, "Wallet "))
}

func TestWalletService_CreateWallet_DuplicateName(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).
		Return(fmt.Errorf("insert wallet: %w", domain.ErrDuplicateName))

	w, err := d.svc.CreateWallet(ctx, "Savings")
	assert.Nil(t, w)
	assertAppError(t, err, "WAL_001")
}

func TestWalletService_CreateWallet_EmptySlug(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreateWallet(context.Background(), "!!!")
	assertAppError(t, err, "REQ_001")
}

func TestWalletService_CreateWallet_StorageError(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))

	_, err := d.svc.CreateWallet(ctx, "Savings")
	assertAppError(t, err, "SYS_001")
}

func TestWalletService_RenameWallet(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := &domain.Wallet{ID: uuid.New(), Name: "Old", Slug: "old", Balance: 40}
	d.walletRepo.EXPECT().GetBySlug(ctx, "old").Return(existing, nil)
	d.walletRepo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, "Brand New", w.Name)
			assert.Equal(t, "brand-new", w.Slug)
			assert.Equal(t, int64(40), w.Balance)
			return nil
		},
	)

	w, err := d.svc.RenameWallet(ctx, "old", "Brand New")
	require.NoError(t, err)
	assert.Equal(t, "brand-new", w.Slug)
}

func TestWalletService_RenameWallet_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		d := setupWalletService(t)
		defer d.ctrl.Finish()

		d.walletRepo.EXPECT().GetBySlug(gomock.Any(), "missing").Return(nil, nil)
		_, err := d.svc.RenameWallet(context.Background(), "missing", "x")
		assertAppError(t, err, "RES_001")
	})

	t.Run("duplicate", func(t *testing.T) {
		d := setupWalletService(t)
		defer d.ctrl.Finish()

		d.walletRepo.EXPECT().GetBySlug(gomock.Any(), "a").Return(&domain.Wallet{ID: uuid.New(), Slug: "a"}, nil)
		d.walletRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.ErrDuplicateName)
		_, err := d.svc.RenameWallet(context.Background(), "a", "B")
		assertAppError(t, err, "WAL_001")
	})
}

func TestWalletService_DeleteWallet(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := &domain.Wallet{ID: uuid.New(), Slug: "travel", Balance: 75}
	d.walletRepo.EXPECT().GetBySlug(ctx, "travel").Return(existing, nil)
	d.walletRepo.EXPECT().Delete(ctx, existing.ID).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev domain.LedgerEvent) error {
			assert.Equal(t, domain.EventWalletDeleted, ev.Type)
			assert.Equal(t, int64(75), ev.Balance)
			return nil
		},
	)

	require.NoError(t, d.svc.DeleteWallet(ctx, "travel"))
}

func TestWalletService_DeleteWallet_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	d.walletRepo.EXPECT().GetBySlug(gomock.Any(), "nope").Return(nil, nil)
	err := d.svc.DeleteWallet(context.Background(), "nope")
	assertAppError(t, err, "RES_001")
}

func TestWalletService_GetWallet(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().GetBySlug(ctx, "x").Return(nil, errors.New("timeout"))

	_, err := d.svc.GetWallet(ctx, "x")
	assertAppError(t, err, "SYS_001")
}

func TestWalletService_ListWallets(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletRepo.EXPECT().List(ctx).Return([]domain.Wallet{{Name: "a"}, {Name: "b"}}, nil)

	wallets, err := d.svc.ListWallets(ctx)
	require.NoError(t, err)
	assert.Len(t, wallets, 2)
}
