package ports

import (
	"context"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside the caller's unit of work; the Lock
// methods hold row locks until that transaction ends.
type WalletRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	// Ensure returns the owner's wallet, creating an empty one if missing.
	Ensure(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency money.Currency) (*domain.Wallet, error)
	// LockByIDs locks the given wallets in ascending id order and returns
	// them in that order.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) ([]*domain.Wallet, error)
	Update(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	SetFrozen(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, frozen bool) error
}

// LedgerRepository is insert-and-read only; entries are never updated.
type LedgerRepository interface {
	// Insert stores the entry and assigns its Sequence.
	Insert(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	GetByReference(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, reference string) (*domain.LedgerEntry, error)
	// ListByWallet returns every entry of the wallet ordered by Sequence.
	ListByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) ([]domain.LedgerEntry, error)
	// SumDebits totals the wallet's debits with the given reason since t.
	SumDebits(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, reason domain.Reason, since time.Time) (int64, error)
}

// MarginRepository persists offer margins keyed by (offer, distributor).
type MarginRepository interface {
	Get(ctx context.Context, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error)
	Create(ctx context.Context, tx pgx.Tx, margin *domain.OfferMargin) error
	Update(ctx context.Context, tx pgx.Tx, margin *domain.OfferMargin) error
}

// HierarchyRepository reads actors and the parent/child forest.
type HierarchyRepository interface {
	GetActor(ctx context.Context, id uuid.UUID) (*domain.Actor, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]domain.HierarchyEdge, error)
}

// IncidentRepository records integrity violations and their release.
type IncidentRepository interface {
	Create(ctx context.Context, tx pgx.Tx, incident *domain.IntegrityIncident) error
	// ClearOpen closes all open incidents of the wallet and returns how many.
	ClearOpen(ctx context.Context, tx pgx.Tx, walletID, operatorID uuid.UUID, note string, at time.Time) (int64, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.IntegrityIncident, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
