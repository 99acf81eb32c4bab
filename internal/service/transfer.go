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

// TransferService moves funds between two wallets synchronously. Both
// balance updates and both ledger legs commit as one unit.
type TransferService struct {
	store   *repository.Store
	cache   *cache.BalanceCache
	minKobo int64
}

func NewTransferService(store *repository.Store, balanceCache *cache.BalanceCache, minKobo int64) *TransferService {
	return &TransferService{store: store, cache: balanceCache, minKobo: minKobo}
}

// TransferResult carries the shared reference prefix of the two legs.
type TransferResult struct {
	Reference       string `json:"reference"`
	DebitReference  string `json:"debit_reference"`
	CreditReference string `json:"credit_reference"`
}

// Transfer debits the sender and credits the wallet identified by
// destinationNumber. Both rows are locked in ascending wallet-ID order —
// regardless of direction — so two opposite transfers between the same pair
// can never deadlock.
func (s *TransferService) Transfer(ctx context.Context, userID uuid.UUID, destinationNumber string, amountKobo int64) (*TransferResult, error) {
	if amountKobo < s.minKobo {
		return nil, fmt.Errorf("%w: transfer must be at least %s", models.ErrInvalidAmount, domain.NewMoney(s.minKobo))
	}

	ref, err := reference.New(reference.TransferPrefix)
	if err != nil {
		return nil, err
	}
	result := &TransferResult{
		Reference:       ref,
		DebitReference:  ref + reference.DebitSuffix,
		CreditReference: ref + reference.CreditSuffix,
	}

	var senderUser, recipientUser uuid.UUID

	err = s.store.RunInTx(ctx, func(r *repository.Repository) error {
		// Resolve both wallets unlocked first; only their IDs matter for
		// establishing the lock order.
		sender, err := r.GetWalletByUserID(ctx, userID)
		if err != nil {
			return err
		}
		recipient, err := r.GetWalletByNumber(ctx, destinationNumber)
		if err != nil {
			return err
		}
		if sender.ID == recipient.ID {
			return models.ErrSameWallet
		}

		first, second := sender.ID, recipient.ID
		if first.String() > second.String() {
			first, second = second, first
		}
		locked := make(map[uuid.UUID]*models.Wallet, 2)
		for _, id := range []uuid.UUID{first, second} {
			w, err := r.GetWalletByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = w
		}
		sender, recipient = locked[sender.ID], locked[recipient.ID]

		// Funds are checked under the held lock, not before.
		if sender.Balance < amountKobo {
			return models.ErrInsufficientBalance
		}

		if err := r.AddToBalance(ctx, sender.ID, -amountKobo); err != nil {
			return err
		}
		if err := r.AddToBalance(ctx, recipient.ID, amountKobo); err != nil {
			return err
		}

		debit := &models.Transaction{
			ID:        uuid.New(),
			WalletID:  sender.ID,
			Type:      domain.TxTypeTransfer,
			Amount:    amountKobo,
			Status:    domain.TxStatusSuccess,
			Reference: result.DebitReference,
			Metadata:  map[string]string{"recipient_wallet": recipient.WalletNumber},
		}
		credit := &models.Transaction{
			ID:        uuid.New(),
			WalletID:  recipient.ID,
			Type:      domain.TxTypeTransfer,
			Amount:    amountKobo,
			Status:    domain.TxStatusSuccess,
			Reference: result.CreditReference,
			Metadata:  map[string]string{"sender_wallet": sender.WalletNumber},
		}
		if err := r.CreateTransaction(ctx, debit); err != nil {
			return err
		}
		if err := r.CreateTransaction(ctx, credit); err != nil {
			return err
		}

		senderUser, recipientUser = sender.UserID, recipient.UserID
		zap.L().Info("transfer completed",
			zap.String("reference", ref),
			zap.String("from", sender.WalletNumber),
			zap.String("to", recipient.WalletNumber),
			zap.Int64("amount_kobo", amountKobo))
		return nil
	})
	if err != nil {
		observability.IncrementLedgerOp("transfer", "error")
		return nil, err
	}

	s.cache.Invalidate(ctx, senderUser, recipientUser)
	observability.IncrementLedgerOp("transfer", "ok")
	return result, nil
}
