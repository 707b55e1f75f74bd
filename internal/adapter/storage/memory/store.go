package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const defaultLockTimeout = 5 * time.Second

var (
	errForeignTx = errors.New("memory: transaction was not started by this store")
	errNotLocked = errors.New("memory: row not locked by this transaction")
)

type ownerKey struct {
	owner    uuid.UUID
	currency money.Currency
}

type marginKey struct {
	offer       uuid.UUID
	distributor uuid.UUID
}

// Store is a process-local implementation of every repository port with
// the same unit-of-work semantics as the PostgreSQL adapter: row locks
// held until commit or rollback, writes invisible to others until commit.
type Store struct {
	mu        sync.RWMutex
	wallets   map[uuid.UUID]domain.Wallet
	byOwner   map[ownerKey]uuid.UUID
	entries   map[uuid.UUID][]domain.LedgerEntry
	margins   map[marginKey]domain.OfferMargin
	actors    map[uuid.UUID]domain.Actor
	children  map[uuid.UUID][]domain.HierarchyEdge
	parents   map[uuid.UUID]domain.HierarchyEdge
	incidents map[uuid.UUID][]domain.IntegrityIncident

	seq         atomic.Int64
	locks       *lockTable
	lockTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long a transaction waits for a row lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		wallets:     make(map[uuid.UUID]domain.Wallet),
		byOwner:     make(map[ownerKey]uuid.UUID),
		entries:     make(map[uuid.UUID][]domain.LedgerEntry),
		margins:     make(map[marginKey]domain.OfferMargin),
		actors:      make(map[uuid.UUID]domain.Actor),
		children:    make(map[uuid.UUID][]domain.HierarchyEdge),
		parents:     make(map[uuid.UUID]domain.HierarchyEdge),
		incidents:   make(map[uuid.UUID][]domain.IntegrityIncident),
		locks:       newLockTable(),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddActor registers or replaces an actor.
func (s *Store) AddActor(a domain.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[a.ID] = a
}

// Link makes child a direct child of parent. The relation type is derived
// from the two roles; every actor has at most one parent.
func (s *Store) Link(parentID, childID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.actors[parentID]
	if !ok {
		return fmt.Errorf("parent %s: %w", parentID, apperror.ErrNotFound("actor"))
	}
	child, ok := s.actors[childID]
	if !ok {
		return fmt.Errorf("child %s: %w", childID, apperror.ErrNotFound("actor"))
	}
	rel, ok := domain.RelationFor(parent.Role, child.Role)
	if !ok {
		return apperror.Validation(fmt.Sprintf("%s cannot be parent of %s", parent.Role, child.Role))
	}
	if _, exists := s.parents[childID]; exists {
		return apperror.ErrConflict("actor already has a parent")
	}

	edge := domain.HierarchyEdge{ParentID: parentID, ChildID: childID, RelationType: rel}
	s.parents[childID] = edge
	s.children[parentID] = append(s.children[parentID], edge)
	return nil
}

func (s *Store) nextSequence() int64 {
	return s.seq.Add(1)
}

// Transactor implements ports.DBTransactor for the memory store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor bound to s.
func NewTransactor(s *Store) *Transactor {
	return &Transactor{store: s}
}

// Begin starts a unit of work.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:   t.store,
		held:    make(map[string]struct{}),
		wallets: make(map[uuid.UUID]domain.Wallet),
		created: make(map[ownerKey]uuid.UUID),
		margins: make(map[marginKey]domain.OfferMargin),
	}, nil
}

type clearOp struct {
	walletID uuid.UUID
	operator uuid.UUID
	note     string
	at       time.Time
}

// Tx stages writes until Commit. Only Commit and Rollback of pgx.Tx are
// implemented; the store's repositories never call the rest.
type Tx struct {
	pgx.Tx

	store     *Store
	mu        sync.Mutex
	held      map[string]struct{}
	wallets   map[uuid.UUID]domain.Wallet
	created   map[ownerKey]uuid.UUID
	entries   []domain.LedgerEntry
	margins   map[marginKey]domain.OfferMargin
	incidents []domain.IntegrityIncident
	clears    []clearOp
	done      bool
}

func asTx(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errForeignTx
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

func (t *Tx) lock(ctx context.Context, key string) error {
	t.mu.Lock()
	_, held := t.held[key]
	t.mu.Unlock()
	if held {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key, t.store.lockTimeout); err != nil {
		return err
	}
	t.mu.Lock()
	t.held[key] = struct{}{}
	t.mu.Unlock()
	return nil
}

func (t *Tx) holds(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.held[key]
	return ok
}

// Commit publishes staged writes atomically and releases all locks.
func (t *Tx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	for id, w := range t.wallets {
		s.wallets[id] = w
	}
	for k, id := range t.created {
		s.byOwner[k] = id
	}
	for _, e := range t.entries {
		s.entries[e.WalletID] = append(s.entries[e.WalletID], e)
	}
	for k, m := range t.margins {
		s.margins[k] = m
	}
	for _, inc := range t.incidents {
		s.incidents[inc.WalletID] = append(s.incidents[inc.WalletID], inc)
	}
	for _, c := range t.clears {
		list := s.incidents[c.walletID]
		for i := range list {
			if list[i].IsOpen() {
				at, by := c.at, c.operator
				list[i].ClearedAt = &at
				list[i].ClearedBy = &by
				list[i].ResolutionNote = c.note
			}
		}
	}
	s.mu.Unlock()

	t.releaseLocked()
	return nil
}

// Rollback discards staged writes and releases all locks.
func (t *Tx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.releaseLocked()
	return nil
}

func (t *Tx) releaseLocked() {
	for key := range t.held {
		t.store.locks.release(key)
	}
	t.held = nil
}

func walletLockKey(id uuid.UUID) string { return "wallet:" + id.String() }

func ownerLockKey(k ownerKey) string {
	return "owner:" + k.owner.String() + ":" + string(k.currency)
}

func marginLockKey(k marginKey) string {
	return "margin:" + k.offer.String() + ":" + k.distributor.String()
}

// sortIDs returns ids deduplicated in ascending byte order, the same order
// PostgreSQL uses for uuid columns.
func sortIDs(ids []uuid.UUID) []uuid.UUID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return slices.Compact(out)
}
