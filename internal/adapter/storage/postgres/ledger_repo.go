package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `id, sequence, wallet_id, direction, amount, currency, resulting_balance, resulting_blocked,
	reference, reason, counterparty_wallet_id, created_by, created_at, prev_hash, hash`

// LedgerRepo implements ports.LedgerRepository. The ledger_entries table
// only ever receives INSERTs.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		e                        domain.LedgerEntry
		direction, reason, cur   string
		amount, balance, blocked int64
	)
	err := row.Scan(
		&e.ID, &e.Sequence, &e.WalletID, &direction, &amount, &cur, &balance, &blocked,
		&e.Reference, &reason, &e.CounterpartyWalletID, &e.CreatedBy, &e.CreatedAt, &e.PrevHash, &e.Hash,
	)
	if err != nil {
		return nil, err
	}
	currency := money.Currency(cur)
	e.Direction = domain.Direction(direction)
	e.Reason = domain.Reason(reason)
	e.Amount = money.New(amount, currency)
	e.ResultingBalance = money.New(balance, currency)
	e.ResultingBlocked = money.New(blocked, currency)
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

// Insert writes the entry and sets its Sequence from the BIGSERIAL column.
func (r *LedgerRepo) Insert(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, wallet_id, direction, amount, currency, resulting_balance, resulting_blocked,
		reference, reason, counterparty_wallet_id, created_by, created_at, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING sequence`

	err := tx.QueryRow(ctx, query,
		e.ID, e.WalletID, string(e.Direction), e.Amount.Amount(), string(e.Amount.Currency()),
		e.ResultingBalance.Amount(), e.ResultingBlocked.Amount(),
		e.Reference, string(e.Reason), e.CounterpartyWalletID, e.CreatedBy, e.CreatedAt,
		e.PrevHash, e.Hash,
	).Scan(&e.Sequence)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return apperror.ErrDuplicateReference(e.Reference)
		}
		return mapError("insert ledger entry", err)
	}
	return nil
}

// GetByReference returns the wallet's entry for reference, or nil.
func (r *LedgerRepo) GetByReference(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, reference string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE wallet_id = $1 AND reference = $2`

	e, err := scanEntry(tx.QueryRow(ctx, query, walletID, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get ledger entry by reference", err)
	}
	return e, nil
}

// ListByWallet returns every entry of the wallet in sequence order.
func (r *LedgerRepo) ListByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE wallet_id = $1 ORDER BY sequence`

	rows, err := tx.Query(ctx, query, walletID)
	if err != nil {
		return nil, mapError("list ledger entries", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// SumDebits totals the wallet's debits for reason at or after since.
func (r *LedgerRepo) SumDebits(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, reason domain.Reason, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::BIGINT FROM ledger_entries
		WHERE wallet_id = $1 AND direction = 'DEBIT' AND reason = $2 AND created_at >= $3`

	var total int64
	if err := tx.QueryRow(ctx, query, walletID, string(reason), since).Scan(&total); err != nil {
		return 0, mapError("sum debits", err)
	}
	return total, nil
}
