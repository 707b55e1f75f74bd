package postgres

import (
	"context"
	"fmt"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IncidentRepo implements ports.IncidentRepository.
type IncidentRepo struct {
	pool Pool
}

// NewIncidentRepo creates a new IncidentRepo.
func NewIncidentRepo(pool Pool) *IncidentRepo {
	return &IncidentRepo{pool: pool}
}

// Create records an incident within the freezing transaction.
func (r *IncidentRepo) Create(ctx context.Context, tx pgx.Tx, inc *domain.IntegrityIncident) error {
	query := `INSERT INTO integrity_incidents (id, wallet_id, kind, currency, ledger_balance, stored_balance,
		ledger_blocked, stored_blocked, detail, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		inc.ID, inc.WalletID, string(inc.Kind), string(inc.StoredBalance.Currency()),
		inc.LedgerBalance.Amount(), inc.StoredBalance.Amount(),
		inc.LedgerBlocked.Amount(), inc.StoredBlocked.Amount(),
		inc.Detail, inc.DetectedAt,
	)
	if err != nil {
		return mapError("insert integrity incident", err)
	}
	return nil
}

// ClearOpen marks every open incident of the wallet as resolved.
func (r *IncidentRepo) ClearOpen(ctx context.Context, tx pgx.Tx, walletID, operatorID uuid.UUID, note string, at time.Time) (int64, error) {
	query := `UPDATE integrity_incidents SET cleared_at = $1, cleared_by = $2, resolution_note = $3
		WHERE wallet_id = $4 AND cleared_at IS NULL`

	tag, err := tx.Exec(ctx, query, at, operatorID, note, walletID)
	if err != nil {
		return 0, mapError("clear integrity incidents", err)
	}
	return tag.RowsAffected(), nil
}

// ListByWallet returns the wallet's incidents, oldest first.
func (r *IncidentRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.IntegrityIncident, error) {
	query := `SELECT id, wallet_id, kind, currency, ledger_balance, stored_balance, ledger_blocked, stored_blocked,
		detail, detected_at, cleared_at, cleared_by, COALESCE(resolution_note, '')
		FROM integrity_incidents WHERE wallet_id = $1 ORDER BY detected_at`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list integrity incidents: %w", err)
	}
	defer rows.Close()

	var out []domain.IntegrityIncident
	for rows.Next() {
		var (
			inc                                  domain.IntegrityIncident
			kind, cur                            string
			ledgerBal, storedBal, ledgerBlk, blk int64
		)
		if err := rows.Scan(
			&inc.ID, &inc.WalletID, &kind, &cur, &ledgerBal, &storedBal, &ledgerBlk, &blk,
			&inc.Detail, &inc.DetectedAt, &inc.ClearedAt, &inc.ClearedBy, &inc.ResolutionNote,
		); err != nil {
			return nil, fmt.Errorf("scan integrity incident: %w", err)
		}
		c := money.Currency(cur)
		inc.Kind = domain.IncidentKind(kind)
		inc.LedgerBalance = money.New(ledgerBal, c)
		inc.StoredBalance = money.New(storedBal, c)
		inc.LedgerBlocked = money.New(ledgerBlk, c)
		inc.StoredBlocked = money.New(blk, c)
		out = append(out, inc)
	}
	return out, rows.Err()
}
