package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/cache"
	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/davidalade/wallet-ledger/internal/reference"
	"github.com/davidalade/wallet-ledger/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// walletNumberAttempts bounds regeneration when generated numbers collide.
// Collisions are rare enough that hitting the bound means the RNG is broken.
const walletNumberAttempts = 10

// WalletService owns wallet provisioning and the read-only query paths.
type WalletService struct {
	store *repository.Store
	cache *cache.BalanceCache
}

func NewWalletService(store *repository.Store, balanceCache *cache.BalanceCache) *WalletService {
	return &WalletService{store: store, cache: balanceCache}
}

// CreateWallet provisions a zero-balance wallet for the user. Idempotent: a
// user who already has a wallet gets the existing one back.
func (s *WalletService) CreateWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	repo := s.store.Repo()

	existing, err := repo.GetWalletByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrWalletNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < walletNumberAttempts; attempt++ {
		number, err := reference.WalletNumber()
		if err != nil {
			return nil, err
		}
		taken, err := repo.WalletNumberExists(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		wallet := &models.Wallet{
			ID:           uuid.New(),
			UserID:       userID,
			WalletNumber: number,
			Balance:      0,
		}
		err = repo.CreateWallet(ctx, wallet)
		if err == nil {
			zap.L().Info("wallet created",
				zap.String("user_id", userID.String()),
				zap.String("wallet_number", number))
			return wallet, nil
		}
		if repository.IsWalletNumberTaken(err) {
			// Lost the race for this number; generate another.
			continue
		}
		if errors.Is(err, models.ErrWalletExists) {
			// Concurrent provisioning for the same user; return theirs.
			return repo.GetWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return nil, fmt.Errorf("could not generate a free wallet number after %d attempts", walletNumberAttempts)
}

// Balance is the point-in-time view served by the balance endpoint.
type Balance struct {
	WalletNumber string
	Kobo         int64
}

// GetBalance returns the current balance and wallet number for the user's
// wallet. Read-committed is sufficient here; no lock is taken.
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (*Balance, error) {
	if entry, ok := s.cache.Get(ctx, userID); ok {
		return &Balance{WalletNumber: entry.WalletNumber, Kobo: entry.Balance}, nil
	}

	wallet, err := s.store.Repo().GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, userID, cache.BalanceEntry{
		WalletNumber: wallet.WalletNumber,
		Balance:      wallet.Balance,
	})
	return &Balance{WalletNumber: wallet.WalletNumber, Kobo: wallet.Balance}, nil
}

// GetTransactionStatus returns the transaction recorded under reference.
func (s *WalletService) GetTransactionStatus(ctx context.Context, ref string) (*models.Transaction, error) {
	return s.store.Repo().GetTransactionByReference(ctx, ref)
}

// GetTransactions returns one page of the user's wallet history, newest
// first.
func (s *WalletService) GetTransactions(ctx context.Context, userID uuid.UUID, page, pageSize int) (*models.Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	repo := s.store.Repo()
	wallet, err := repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	items, err := repo.ListTransactionsByWallet(ctx, wallet.ID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountTransactionsByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	return &models.Page{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}
