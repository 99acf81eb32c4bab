package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository holds all hand-written queries. WithTx rebinds them to a
// transaction so callers inside Store.RunInTx share one unit of work.
type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

const walletColumns = "id, user_id, wallet_number, balance, created_at"

// CreateWallet persists a zero-or-seeded wallet. Returns
// models.ErrWalletExists when the owner already has one and
// errWalletNumberTaken when the generated number collided; the caller
// regenerates and retries on the latter.
func (r *Repository) CreateWallet(ctx context.Context, w *models.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, wallet_number, balance, created_at)
		VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`
	err := r.db.QueryRow(ctx, query, w.ID, w.UserID, w.WalletNumber, w.Balance).Scan(&w.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "wallets_user_id_key":
				return models.ErrWalletExists
			case "wallets_wallet_number_key":
				return errWalletNumberTaken
			}
		}
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

var errWalletNumberTaken = errors.New("wallet number already taken")

// IsWalletNumberTaken reports whether err is a wallet-number collision.
func IsWalletNumberTaken(err error) bool {
	return errors.Is(err, errWalletNumberTaken)
}

// WalletNumberExists checks a candidate number against the store before it
// is handed out.
func (r *Repository) WalletNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM wallets WHERE wallet_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wallet number: %w", err)
	}
	return exists, nil
}

func (r *Repository) GetWalletByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1`, walletColumns)
	return r.scanWallet(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) GetWalletByNumber(ctx context.Context, number string) (*models.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE wallet_number = $1`, walletColumns)
	return r.scanWallet(r.db.QueryRow(ctx, query, number))
}

// GetWalletByUserIDForUpdate acquires a write-exclusive row lock scoped to
// the enclosing transaction. This is the sole sanctioned read path before a
// balance mutation.
func (r *Repository) GetWalletByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE user_id = $1 FOR UPDATE`, walletColumns)
	return r.scanWallet(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) GetWalletByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE id = $1 FOR UPDATE`, walletColumns)
	return r.scanWallet(r.db.QueryRow(ctx, query, id))
}

// AddToBalance applies a signed delta to a locked wallet row. The CHECK
// constraint on balance is the last line of defense; services verify funds
// under the lock before debiting.
func (r *Repository) AddToBalance(ctx context.Context, walletID uuid.UUID, delta int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE wallets SET balance = balance + $1 WHERE id = $2`, delta, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update wallet balance affected %d rows", tag.RowsAffected())
	}
	return nil
}

func (r *Repository) scanWallet(row pgx.Row) (*models.Wallet, error) {
	w := &models.Wallet{}
	err := row.Scan(&w.ID, &w.UserID, &w.WalletNumber, &w.Balance, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrWalletNotFound
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
