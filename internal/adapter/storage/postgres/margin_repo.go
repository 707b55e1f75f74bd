package postgres

import (
	"context"
	"errors"
	"fmt"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const marginColumns = `id, offer_id, distributor_id, currency, precio_distribuidor, precio_vendedor, precio_cliente,
	comision_vendedor, comision_distribuidor, margen_plataforma, status, version, created_at, updated_at`

// MarginRepo implements ports.MarginRepository.
type MarginRepo struct {
	pool Pool
}

// NewMarginRepo creates a new MarginRepo.
func NewMarginRepo(pool Pool) *MarginRepo {
	return &MarginRepo{pool: pool}
}

func scanMargin(row pgx.Row) (*domain.OfferMargin, error) {
	var (
		m                  domain.OfferMargin
		cur, status        string
		pd, pv, pc, cv, cd int64
		mp                 int64
	)
	err := row.Scan(
		&m.ID, &m.OfferID, &m.DistributorID, &cur, &pd, &pv, &pc,
		&cv, &cd, &mp, &status, &m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c := money.Currency(cur)
	m.PrecioDistribuidor = money.New(pd, c)
	m.PrecioVendedor = money.New(pv, c)
	m.PrecioCliente = money.New(pc, c)
	m.ComisionVendedor = money.New(cv, c)
	m.ComisionDistribuidor = money.New(cd, c)
	m.MargenPlataforma = money.New(mp, c)
	m.Status = domain.MarginStatus(status)
	return &m, nil
}

// Get fetches a margin without locking, or nil.
func (r *MarginRepo) Get(ctx context.Context, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error) {
	query := `SELECT ` + marginColumns + ` FROM offer_margins WHERE offer_id = $1 AND distributor_id = $2`

	m, err := scanMargin(r.pool.QueryRow(ctx, query, offerID, distributorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer margin: %w", err)
	}
	return m, nil
}

// GetForUpdate fetches a margin with a row lock, or nil.
func (r *MarginRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error) {
	query := `SELECT ` + marginColumns + ` FROM offer_margins WHERE offer_id = $1 AND distributor_id = $2 FOR UPDATE`

	m, err := scanMargin(tx.QueryRow(ctx, query, offerID, distributorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get offer margin for update", err)
	}
	return m, nil
}

// Create inserts a margin; a second margin for the same key is a conflict.
func (r *MarginRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.OfferMargin) error {
	query := `INSERT INTO offer_margins (` + marginColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, query,
		m.ID, m.OfferID, m.DistributorID, string(m.PrecioDistribuidor.Currency()),
		m.PrecioDistribuidor.Amount(), m.PrecioVendedor.Amount(), m.PrecioCliente.Amount(),
		m.ComisionVendedor.Amount(), m.ComisionDistribuidor.Amount(), m.MargenPlataforma.Amount(),
		string(m.Status), m.Version, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return apperror.ErrConflict("Margin already configured for this offer and distributor")
		}
		return mapError("insert offer margin", err)
	}
	return nil
}

// Update rewrites prices, status and version.
func (r *MarginRepo) Update(ctx context.Context, tx pgx.Tx, m *domain.OfferMargin) error {
	query := `UPDATE offer_margins SET precio_vendedor = $1, precio_cliente = $2, comision_vendedor = $3,
		comision_distribuidor = $4, margen_plataforma = $5, status = $6, version = $7, updated_at = $8
		WHERE id = $9`

	tag, err := tx.Exec(ctx, query,
		m.PrecioVendedor.Amount(), m.PrecioCliente.Amount(), m.ComisionVendedor.Amount(),
		m.ComisionDistribuidor.Amount(), m.MargenPlataforma.Amount(), string(m.Status),
		m.Version, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return mapError("update offer margin", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("offer margin not found: %s", m.ID)
	}
	return nil
}
