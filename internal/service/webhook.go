package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/cache"
	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/gateway"
	"github.com/davidalade/wallet-ledger/internal/observability"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidSignature is returned when the webhook signature does not match.
// The payload is never inspected in that case.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const chargeSuccessEvent = "charge.success"

// Webhook reconciliation outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeMismatch  = "amount_mismatch"
	OutcomeFailed    = "failed"
)

// WebhookService applies externally-confirmed payment events to pending
// deposits. It is the only path allowed to move a deposit out of PENDING.
type WebhookService struct {
	store *repository.Store
	gw    gateway.Gateway
	cache *cache.BalanceCache
}

func NewWebhookService(store *repository.Store, gw gateway.Gateway, balanceCache *cache.BalanceCache) *WebhookService {
	return &WebhookService{store: store, gw: gw, cache: balanceCache}
}

// WebhookResult reports what reconciliation did with a delivery.
type WebhookResult struct {
	Outcome   string `json:"outcome"`
	Reference string `json:"reference,omitempty"`
}

type chargeEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"` // kobo, as reported by the provider
	} `json:"data"`
}

// HandleEvent verifies, filters and reconciles one webhook delivery.
//
// The transaction row is locked before the idempotency gate so two
// concurrent deliveries of the same reference serialize: the second blocks
// until the first commits, then sees a terminal status and no-ops. Wallet
// credit and status update commit together.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if !s.gw.VerifySignature(payload, signature) {
		observability.IncrementWebhookEvent("invalid_signature")
		return nil, ErrInvalidSignature
	}

	var event chargeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	if event.Event != chargeSuccessEvent {
		zap.L().Info("ignoring webhook event", zap.String("event", event.Event))
		observability.IncrementWebhookEvent(OutcomeIgnored)
		return &WebhookResult{Outcome: OutcomeIgnored}, nil
	}
	if event.Data.Reference == "" {
		return nil, fmt.Errorf("invalid webhook payload: missing reference")
	}

	result := &WebhookResult{Reference: event.Data.Reference}
	var creditedUser uuid.UUID

	err := s.store.RunInTx(ctx, func(r *repository.Repository) error {
		txn, err := r.GetTransactionByReferenceForUpdate(ctx, event.Data.Reference)
		if err != nil {
			return err
		}

		// Idempotency gate: a terminal transaction has already been
		// accounted for; treat this delivery as a duplicate and apply
		// nothing.
		if domain.IsTerminalStatus(txn.Status) {
			result.Outcome = OutcomeDuplicate
			return nil
		}

		if event.Data.Amount != txn.Amount {
			// Amount mismatch is a fraud/error signal. Record the failure
			// durably and never credit any part of it.
			zap.L().Error("webhook amount mismatch",
				zap.String("reference", txn.Reference),
				zap.Int64("recorded_kobo", txn.Amount),
				zap.Int64("reported_kobo", event.Data.Amount))
			result.Outcome = OutcomeMismatch
			return r.UpdateTransactionStatus(ctx, txn.ID, domain.TxStatusFailed)
		}

		if event.Data.Status != "success" {
			result.Outcome = OutcomeFailed
			return r.UpdateTransactionStatus(ctx, txn.ID, domain.TxStatusFailed)
		}

		wallet, err := r.GetWalletByIDForUpdate(ctx, txn.WalletID)
		if err != nil {
			return err
		}
		if err := r.AddToBalance(ctx, wallet.ID, txn.Amount); err != nil {
			return err
		}
		if err := r.UpdateTransactionStatus(ctx, txn.ID, domain.TxStatusSuccess); err != nil {
			return err
		}

		creditedUser = wallet.UserID
		result.Outcome = OutcomeApplied
		zap.L().Info("deposit reconciled",
			zap.String("reference", txn.Reference),
			zap.String("wallet_number", wallet.WalletNumber),
			zap.Int64("amount_kobo", txn.Amount))
		return nil
	})
	if err != nil {
		observability.IncrementWebhookEvent("error")
		return nil, err
	}

	if result.Outcome == OutcomeApplied {
		s.cache.Invalidate(ctx, creditedUser)
	}
	observability.IncrementWebhookEvent(result.Outcome)
	return result, nil
}
