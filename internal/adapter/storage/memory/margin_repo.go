package memory

import (
	"context"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MarginRepo implements ports.MarginRepository.
type MarginRepo struct {
	s *Store
}

// NewMarginRepo creates a new MarginRepo.
func NewMarginRepo(s *Store) *MarginRepo {
	return &MarginRepo{s: s}
}

// Get returns the committed margin, or nil.
func (r *MarginRepo) Get(_ context.Context, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.margins[marginKey{offerID, distributorID}]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate locks the (offer, distributor) key and returns the margin as
// tx sees it, or nil. The lock is taken even when no margin exists yet so
// concurrent creators serialize.
func (r *MarginRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	key := marginKey{offerID, distributorID}
	if err := t.lock(ctx, marginLockKey(key)); err != nil {
		return nil, err
	}

	t.mu.Lock()
	staged, ok := t.margins[key]
	t.mu.Unlock()
	if ok {
		return &staged, nil
	}
	return r.Get(ctx, offerID, distributorID)
}

// Create stages a new margin.
func (r *MarginRepo) Create(ctx context.Context, tx pgx.Tx, m *domain.OfferMargin) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	existing, err := r.GetForUpdate(ctx, tx, m.OfferID, m.DistributorID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.ErrConflict("Margin already configured for this offer and distributor")
	}
	t.mu.Lock()
	t.margins[marginKey{m.OfferID, m.DistributorID}] = *m
	t.mu.Unlock()
	return nil
}

// Update stages a changed margin. The key must be locked by tx.
func (r *MarginRepo) Update(_ context.Context, tx pgx.Tx, m *domain.OfferMargin) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	key := marginKey{m.OfferID, m.DistributorID}
	if !t.holds(marginLockKey(key)) {
		return apperror.InternalError(errNotLocked)
	}
	t.mu.Lock()
	t.margins[key] = *m
	t.mu.Unlock()
	return nil
}
