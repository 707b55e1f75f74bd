package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	s *Store
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(s *Store) *WalletRepo {
	return &WalletRepo{s: s}
}

// GetByID returns the committed wallet, or nil if it does not exist.
func (r *WalletRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// GetByOwner returns the owner's committed wallet, or nil.
func (r *WalletRepo) GetByOwner(_ context.Context, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.byOwner[ownerKey{ownerID, currency}]
	if !ok {
		return nil, nil
	}
	w := r.s.wallets[id]
	return &w, nil
}

// ListIDs returns every wallet id in ascending order.
func (r *WalletRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.s.wallets))
	for id := range r.s.wallets {
		ids = append(ids, id)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids, nil
}

// Ensure returns the owner's wallet, staging a new one in tx if missing.
// A staged wallet becomes visible on Commit and vanishes on Rollback. The
// owner key stays locked until then, so a concurrent Ensure for the same
// owner waits and then finds the committed wallet, as a unique index would
// make it.
func (r *WalletRepo) Ensure(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	key := ownerKey{ownerID, currency}
	if w, ok := r.byOwner(t, key); ok {
		return w, nil
	}
	if err := t.lock(ctx, ownerLockKey(key)); err != nil {
		return nil, err
	}
	if w, ok := r.byOwner(t, key); ok {
		return w, nil
	}

	w := domain.NewWallet(ownerID, currency, time.Now().UTC())
	t.mu.Lock()
	t.wallets[w.ID] = *w
	t.created[key] = w.ID
	t.mu.Unlock()
	return w, nil
}

// byOwner finds the owner's wallet as tx sees it.
func (r *WalletRepo) byOwner(t *Tx, key ownerKey) (*domain.Wallet, bool) {
	t.mu.Lock()
	id, ok := t.created[key]
	t.mu.Unlock()
	if !ok {
		r.s.mu.RLock()
		id, ok = r.s.byOwner[key]
		r.s.mu.RUnlock()
		if !ok {
			return nil, false
		}
	}
	return r.current(t, id)
}

// LockByIDs locks the wallets in ascending id order, waiting at most the
// store's lock timeout for each.
func (r *WalletRepo) LockByIDs(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) ([]*domain.Wallet, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	ordered := sortIDs(ids)
	out := make([]*domain.Wallet, 0, len(ordered))
	for _, id := range ordered {
		if err := t.lock(ctx, walletLockKey(id)); err != nil {
			return nil, err
		}
		w, ok := r.current(t, id)
		if !ok {
			return nil, fmt.Errorf("lock wallet %s: %w", id, apperror.ErrNotFound("wallet"))
		}
		out = append(out, w)
	}
	return out, nil
}

// Update stages the wallet's new state. The wallet must be locked by tx.
func (r *WalletRepo) Update(_ context.Context, tx pgx.Tx, w *domain.Wallet) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if !t.holds(walletLockKey(w.ID)) {
		return fmt.Errorf("update wallet %s: %w", w.ID, errNotLocked)
	}
	t.mu.Lock()
	t.wallets[w.ID] = *w
	t.mu.Unlock()
	return nil
}

// SetFrozen stages the frozen flag. The wallet must be locked by tx.
func (r *WalletRepo) SetFrozen(_ context.Context, tx pgx.Tx, walletID uuid.UUID, frozen bool) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}
	if !t.holds(walletLockKey(walletID)) {
		return fmt.Errorf("set frozen %s: %w", walletID, errNotLocked)
	}
	w, ok := r.current(t, walletID)
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Frozen = frozen
	t.mu.Lock()
	t.wallets[walletID] = *w
	t.mu.Unlock()
	return nil
}

// current returns the wallet as tx sees it: staged if written, else committed.
func (r *WalletRepo) current(t *Tx, id uuid.UUID) (*domain.Wallet, bool) {
	t.mu.Lock()
	staged, ok := t.wallets[id]
	t.mu.Unlock()
	if ok {
		return &staged, true
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, false
	}
	return &w, true
}
