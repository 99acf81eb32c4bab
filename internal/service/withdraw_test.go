package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/models"
)

func TestWithdraw(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := newTestStore(db)
	svc := NewWithdrawService(store, nil, 20_000)
	ctx := context.Background()

	wallet := createTestWallet(t, store, 100_000)

	ref, err := svc.Withdraw(ctx, wallet.UserID, 25_000)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "WDR_"))

	fresh, err := store.Repo().GetWalletByUserID(ctx, wallet.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(75_000), fresh.Balance)

	txn, err := store.Repo().GetTransactionByReference(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeWithdrawal, txn.Type)
	assert.Equal(t, domain.TxStatusSuccess, txn.Status)
	assert.Equal(t, int64(25_000), txn.Amount)
}

func TestWithdraw_InsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := newTestStore(db)
	svc := NewWithdrawService(store, nil, 20_000)
	ctx := context.Background()

	wallet := createTestWallet(t, store, 20_000)

	_, err := svc.Withdraw(ctx, wallet.UserID, 30_000)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	fresh, err := store.Repo().GetWalletByUserID(ctx, wallet.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), fresh.Balance)
}

func TestWithdraw_BelowMinimum(t *testing.T) {
	svc := NewWithdrawService(nil, nil, 20_000)

	_, err := svc.Withdraw(context.Background(), uuid.New(), 19_999)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)
}

func TestWithdraw_ExactBalance(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := newTestStore(db)
	svc := NewWithdrawService(store, nil, 20_000)
	ctx := context.Background()

	wallet := createTestWallet(t, store, 50_000)

	_, err := svc.Withdraw(ctx, wallet.UserID, 50_000)
	require.NoError(t, err)

	fresh, err := store.Repo().GetWalletByUserID(ctx, wallet.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.Balance)
}
