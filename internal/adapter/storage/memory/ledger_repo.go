package memory

import (
	"context"
	"slices"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	s *Store
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(s *Store) *LedgerRepo {
	return &LedgerRepo{s: s}
}

// Insert stages the entry and assigns its sequence number.
func (r *LedgerRepo) Insert(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	existing, err := r.GetByReference(ctx, tx, e.WalletID, e.Reference)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.ErrDuplicateReference(e.Reference)
	}

	e.Sequence = r.s.nextSequence()
	t.mu.Lock()
	t.entries = append(t.entries, *e)
	t.mu.Unlock()
	return nil
}

// GetByReference finds the wallet's entry for reference, or nil.
func (r *LedgerRepo) GetByReference(_ context.Context, tx pgx.Tx, walletID uuid.UUID, reference string) (*domain.LedgerEntry, error) {
	entries, err := r.visible(tx, walletID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Reference == reference {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// ListByWallet returns the wallet's entries ordered by sequence.
func (r *LedgerRepo) ListByWallet(_ context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := r.visible(tx, walletID)
	if err != nil {
		return nil, err
	}
	domain.SortBySequence(entries)
	return entries, nil
}

// SumDebits totals the wallet's debits for reason at or after since.
func (r *LedgerRepo) SumDebits(_ context.Context, tx pgx.Tx, walletID uuid.UUID, reason domain.Reason, since time.Time) (int64, error) {
	entries, err := r.visible(tx, walletID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.Direction == domain.DirectionDebit && e.Reason == reason && !e.CreatedAt.Before(since) {
			total += e.Amount.Amount()
		}
	}
	return total, nil
}

// visible returns committed entries plus those staged by tx.
func (r *LedgerRepo) visible(tx pgx.Tx, walletID uuid.UUID) ([]domain.LedgerEntry, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	out := slices.Clone(r.s.entries[walletID])
	r.s.mu.RUnlock()

	t.mu.Lock()
	for _, e := range t.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	t.mu.Unlock()
	return out, nil
}
