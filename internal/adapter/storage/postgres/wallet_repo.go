package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const walletColumns = `id, owner_id, currency, balance, blocked_balance, version, frozen, last_hash, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		w        domain.Wallet
		currency string
		balance  int64
		blocked  int64
	)
	err := row.Scan(
		&w.ID, &w.OwnerID, &currency, &balance, &blocked,
		&w.Version, &w.Frozen, &w.LastHash, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Currency = money.Currency(currency)
	w.Balance = money.New(balance, w.Currency)
	w.Blocked = money.New(blocked, w.Currency)
	return &w, nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByOwner fetches the owner's wallet in currency (non-locking read).
func (r *WalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 AND currency = $2`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, ownerID, string(currency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by owner: %w", err)
	}
	return w, nil
}

// ListIDs returns every wallet id in ascending order.
func (r *WalletRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM wallets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list wallet ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wallet id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure creates the owner's wallet if it does not exist and returns it.
func (r *WalletRepo) Ensure(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error) {
	now := time.Now().UTC()
	insert := `INSERT INTO wallets (id, owner_id, currency, balance, blocked_balance, version, frozen, last_hash, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, FALSE, '', $4, $4)
		ON CONFLICT (owner_id, currency) DO NOTHING`

	if _, err := tx.Exec(ctx, insert, uuid.New(), ownerID, string(currency), now); err != nil {
		return nil, mapError("ensure wallet", err)
	}

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 AND currency = $2`
	w, err := scanWallet(tx.QueryRow(ctx, query, ownerID, string(currency)))
	if err != nil {
		return nil, mapError("read ensured wallet", err)
	}
	return w, nil
}

// LockByIDs takes row locks one wallet at a time in ascending id order so
// that any two transactions touching the same wallets lock them in the
// same order.
func (r *WalletRepo) LockByIDs(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) ([]*domain.Wallet, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ordered = slices.Compact(ordered)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`
	out := make([]*domain.Wallet, 0, len(ordered))
	for _, id := range ordered {
		w, err := scanWallet(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("lock wallet %s: %w", id, apperror.ErrNotFound("wallet"))
			}
			return nil, mapError("lock wallet", err)
		}
		out = append(out, w)
	}
	return out, nil
}

// Update writes balances, version and hash head within a transaction.
func (r *WalletRepo) Update(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `UPDATE wallets SET balance = $1, blocked_balance = $2, version = $3, frozen = $4,
		last_hash = $5, updated_at = $6 WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		w.Balance.Amount(), w.Blocked.Amount(), w.Version, w.Frozen,
		w.LastHash, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return mapError("update wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", w.ID)
	}
	return nil
}

// SetFrozen sets or clears the reconciliation hold.
func (r *WalletRepo) SetFrozen(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, frozen bool) error {
	query := `UPDATE wallets SET frozen = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, frozen, walletID)
	if err != nil {
		return mapError("set wallet frozen", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}
