package service

import (
	"context"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/cache"
	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/davidalade/wallet-ledger/internal/observability"
	"github.com/davidalade/wallet-ledger/internal/reference"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithdrawService debits a wallet and records the withdrawal. Settlement to
// an external payout rail is not handled here; only the ledger-side debit.
type WithdrawService struct {
	store   *repository.Store
	cache   *cache.BalanceCache
	minKobo int64
}

func NewWithdrawService(store *repository.Store, balanceCache *cache.BalanceCache, minKobo int64) *WithdrawService {
	return &WithdrawService{store: store, cache: balanceCache, minKobo: minKobo}
}

// Withdraw debits the caller's wallet under lock and appends one SUCCESS
// WITHDRAWAL row, atomically.
func (s *WithdrawService) Withdraw(ctx context.Context, userID uuid.UUID, amountKobo int64) (string, error) {
	if amountKobo < s.minKobo {
		return "", fmt.Errorf("%w: withdrawal must be at least %s", models.ErrInvalidAmount, domain.NewMoney(s.minKobo))
	}

	ref, err := reference.New(reference.WithdrawalPrefix)
	if err != nil {
		return "", err
	}

	err = s.store.RunInTx(ctx, func(r *repository.Repository) error {
		wallet, err := r.GetWalletByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if wallet.Balance < amountKobo {
			return models.ErrInsufficientBalance
		}

		if err := r.AddToBalance(ctx, wallet.ID, -amountKobo); err != nil {
			return err
		}
		if err := r.CreateTransaction(ctx, &models.Transaction{
			ID:        uuid.New(),
			WalletID:  wallet.ID,
			Type:      domain.TxTypeWithdrawal,
			Amount:    amountKobo,
			Status:    domain.TxStatusSuccess,
			Reference: ref,
			Metadata:  map[string]string{},
		}); err != nil {
			return err
		}

		zap.L().Info("withdrawal completed",
			zap.String("reference", ref),
			zap.String("wallet_number", wallet.WalletNumber),
			zap.Int64("amount_kobo", amountKobo))
		return nil
	})
	if err != nil {
		observability.IncrementLedgerOp("withdraw", "error")
		return "", err
	}

	s.cache.Invalidate(ctx, userID)
	observability.IncrementLedgerOp("withdraw", "ok")
	return ref, nil
}
