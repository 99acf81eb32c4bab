package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const transactionColumns = "id, wallet_id, type, amount, status, reference, metadata, created_at"

// CreateTransaction appends one immutable ledger row. The unique index on
// reference is the idempotency backstop: a duplicate append surfaces
// models.ErrDuplicateReference no matter what the application checked first.
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("encode transaction metadata: %w", err)
	}

	query := `INSERT INTO transactions (id, wallet_id, type, amount, status, reference, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW()) RETURNING created_at`
	err = r.db.QueryRow(ctx, query, t.ID, t.WalletID, t.Type, t.Amount, t.Status, t.Reference, metadata).Scan(&t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateReference
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE reference = $1`, transactionColumns)
	return r.scanTransaction(r.db.QueryRow(ctx, query, reference))
}

// GetTransactionByReferenceForUpdate locks the transaction row so a
// concurrent duplicate webhook delivery cannot race past the PENDING check.
func (r *Repository) GetTransactionByReferenceForUpdate(ctx context.Context, reference string) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE reference = $1 FOR UPDATE`, transactionColumns)
	return r.scanTransaction(r.db.QueryRow(ctx, query, reference))
}

// UpdateTransactionStatus moves a transaction to its terminal status. Rows
// already terminal are never updated again; reconciliation checks the
// status under lock before calling this.
func (r *Repository) UpdateTransactionStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update transaction status affected %d rows", tag.RowsAffected())
	}
	return nil
}

// ListTransactionsByWallet returns one history page, newest first.
func (r *Repository) ListTransactionsByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, transactionColumns)
	rows, err := r.db.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var items []models.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r *Repository) CountTransactionsByWallet(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`, walletID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

// BalanceDrift is one wallet whose stored balance diverges from the net of
// its SUCCESS transaction rows.
type BalanceDrift struct {
	WalletID     uuid.UUID
	WalletNumber string
	Balance      int64
	LedgerNet    int64
}

// ListBalanceDrift recomputes every wallet balance from the transaction log
// and returns the wallets that do not match. Deposits credit, withdrawals
// debit, transfer legs follow their reference suffix.
func (r *Repository) ListBalanceDrift(ctx context.Context) ([]BalanceDrift, error) {
	query := `
		SELECT w.id, w.wallet_number, w.balance, COALESCE(SUM(
			CASE
				WHEN t.type = 'DEPOSIT' THEN t.amount
				WHEN t.type = 'WITHDRAWAL' THEN -t.amount
				WHEN t.type = 'TRANSFER' AND t.reference LIKE '%\_CREDIT' THEN t.amount
				ELSE -t.amount
			END), 0) AS ledger_net
		FROM wallets w
		LEFT JOIN transactions t ON t.wallet_id = w.id AND t.status = 'SUCCESS'
		GROUP BY w.id, w.wallet_number, w.balance
		HAVING w.balance <> COALESCE(SUM(
			CASE
				WHEN t.type = 'DEPOSIT' THEN t.amount
				WHEN t.type = 'WITHDRAWAL' THEN -t.amount
				WHEN t.type = 'TRANSFER' AND t.reference LIKE '%\_CREDIT' THEN t.amount
				ELSE -t.amount
			END), 0)
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list balance drift: %w", err)
	}
	defer rows.Close()

	var drifts []BalanceDrift
	for rows.Next() {
		var d BalanceDrift
		if err := rows.Scan(&d.WalletID, &d.WalletNumber, &d.Balance, &d.LedgerNet); err != nil {
			return nil, fmt.Errorf("scan balance drift: %w", err)
		}
		drifts = append(drifts, d)
	}
	return drifts, rows.Err()
}

func (r *Repository) scanTransaction(row pgx.Row) (*models.Transaction, error) {
	t := &models.Transaction{}
	var metadata []byte
	err := row.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Status, &t.Reference, &metadata, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
			return nil, fmt.Errorf("decode transaction metadata: %w", err)
		}
	}
	return t, nil
}
