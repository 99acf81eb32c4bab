package service

import (
	"context"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/gateway"
	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/davidalade/wallet-ledger/internal/observability"
	"github.com/davidalade/wallet-ledger/internal/reference"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepositService records deposit intents and hands the payer to the payment
// provider. Balances are never touched here; only a confirmed webhook
// credits the wallet.
type DepositService struct {
	store   *repository.Store
	gw      gateway.Gateway
	minKobo int64
}

func NewDepositService(store *repository.Store, gw gateway.Gateway, minKobo int64) *DepositService {
	return &DepositService{store: store, gw: gw, minKobo: minKobo}
}

// DepositIntent is handed back to the caller so they can complete the
// charge and later poll the reference.
type DepositIntent struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// InitiateDeposit appends a PENDING DEPOSIT transaction and opens a hosted
// payment session for it. The provider call happens after the row has
// committed so no row lock is ever held across the network round trip.
func (s *DepositService) InitiateDeposit(ctx context.Context, userID uuid.UUID, email string, amountKobo int64) (*DepositIntent, error) {
	if amountKobo < s.minKobo {
		return nil, fmt.Errorf("%w: deposit must be at least %s", models.ErrInvalidAmount, domain.NewMoney(s.minKobo))
	}

	ref, err := reference.New(reference.DepositPrefix)
	if err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(r *repository.Repository) error {
		wallet, err := r.GetWalletByUserID(ctx, userID)
		if err != nil {
			return err
		}
		return r.CreateTransaction(ctx, &models.Transaction{
			ID:        uuid.New(),
			WalletID:  wallet.ID,
			Type:      domain.TxTypeDeposit,
			Amount:    amountKobo,
			Status:    domain.TxStatusPending,
			Reference: ref,
			Metadata:  map[string]string{},
		})
	})
	if err != nil {
		observability.IncrementLedgerOp("deposit_initiate", "error")
		return nil, err
	}

	authorizationURL, err := s.gw.InitializeTransaction(ctx, email, amountKobo, ref)
	if err != nil {
		// The PENDING row stays behind; it simply never reconciles.
		observability.IncrementLedgerOp("deposit_initiate", "gateway_error")
		return nil, fmt.Errorf("initialize payment session: %w", err)
	}

	observability.IncrementLedgerOp("deposit_initiate", "ok")
	zap.L().Info("deposit initiated",
		zap.String("reference", ref),
		zap.Int64("amount_kobo", amountKobo))

	return &DepositIntent{Reference: ref, AuthorizationURL: authorizationURL}, nil
}
