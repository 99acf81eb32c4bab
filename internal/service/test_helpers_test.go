package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/davidalade/wallet-ledger/internal/reference"
	"github.com/davidalade/wallet-ledger/internal/repository"
)

// setupTestDB connects to the Postgres instance named by DATABASE_URL and
// resets the wallet tables. Tests are skipped when no database is
// available.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	ensureSchema(t, db)

	if _, err := db.Exec(context.Background(), "TRUNCATE TABLE transactions, wallets CASCADE"); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return db
}

func ensureSchema(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	sql := `
		CREATE TABLE IF NOT EXISTS wallets (
			id            UUID PRIMARY KEY,
			user_id       UUID NOT NULL UNIQUE,
			wallet_number CHAR(10) NOT NULL UNIQUE,
			balance       BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id         UUID PRIMARY KEY,
			wallet_id  UUID NOT NULL REFERENCES wallets (id),
			type       TEXT NOT NULL CHECK (type IN ('DEPOSIT', 'TRANSFER', 'WITHDRAWAL')),
			amount     BIGINT NOT NULL CHECK (amount > 0),
			status     TEXT NOT NULL CHECK (status IN ('PENDING', 'SUCCESS', 'FAILED')),
			reference  TEXT NOT NULL UNIQUE,
			metadata   JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_wallet_created
			ON transactions (wallet_id, created_at DESC);
	`
	if _, err := db.Exec(context.Background(), sql); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}
}

func newTestStore(db *pgxpool.Pool) *repository.Store {
	return repository.NewStore(db, 3*time.Second)
}

// createTestWallet inserts a wallet with the given opening balance and
// returns it.
func createTestWallet(t *testing.T, store *repository.Store, balance int64) *models.Wallet {
	t.Helper()

	number, err := reference.WalletNumber()
	if err != nil {
		t.Fatalf("failed to generate wallet number: %v", err)
	}
	wallet := &models.Wallet{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		WalletNumber: number,
		Balance:      0,
	}
	if err := store.Repo().CreateWallet(context.Background(), wallet); err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}
	if balance > 0 {
		if err := store.Repo().AddToBalance(context.Background(), wallet.ID, balance); err != nil {
			t.Fatalf("failed to fund test wallet: %v", err)
		}
		wallet.Balance = balance
	}
	return wallet
}
