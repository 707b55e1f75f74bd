package memory

import (
	"context"
	"slices"
	"time"

	"mexared-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IncidentRepo implements ports.IncidentRepository.
type IncidentRepo struct {
	s *Store
}

// NewIncidentRepo creates a new IncidentRepo.
func NewIncidentRepo(s *Store) *IncidentRepo {
	return &IncidentRepo{s: s}
}

func (r *IncidentRepo) Create(_ context.Context, tx pgx.Tx, inc *domain.IntegrityIncident) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.incidents = append(t.incidents, *inc)
	t.mu.Unlock()
	return nil
}

// ClearOpen stages the release of every open incident of the wallet,
// including ones created earlier in the same transaction.
func (r *IncidentRepo) ClearOpen(_ context.Context, tx pgx.Tx, walletID, operatorID uuid.UUID, note string, at time.Time) (int64, error) {
	t, err := asTx(tx)
	if err != nil {
		return 0, err
	}

	var n int64
	r.s.mu.RLock()
	for i := range r.s.incidents[walletID] {
		if r.s.incidents[walletID][i].IsOpen() {
			n++
		}
	}
	r.s.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.incidents {
		inc := &t.incidents[i]
		if inc.WalletID == walletID && inc.IsOpen() {
			cleared, by := at, operatorID
			inc.ClearedAt = &cleared
			inc.ClearedBy = &by
			inc.ResolutionNote = note
			n++
		}
	}
	t.clears = append(t.clears, clearOp{walletID: walletID, operator: operatorID, note: note, at: at})
	return n, nil
}

// ListByWallet returns committed incidents, oldest first.
func (r *IncidentRepo) ListByWallet(_ context.Context, walletID uuid.UUID) ([]domain.IntegrityIncident, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.incidents[walletID]), nil
}
