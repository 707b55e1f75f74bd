package service

import (
	"context"
	"testing"
	"time"

	"mexared-ledger/internal/adapter/storage/memory"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/internal/core/ports/mocks"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

// ledgerFixture wires every service to one in-memory store with a small
// hierarchy:
//
//	admin ── dist ─┬─ vendor1 ── client1
//	               ├─ vendor2
//	               └─ client2
//	admin ── dist2 ── vendor3
type ledgerFixture struct {
	ctrl      *gomock.Controller
	store     *memory.Store
	wallets   *memory.WalletRepo
	ledger    *memory.LedgerRepo
	margins   *memory.MarginRepo
	incidents *memory.IncidentRepo
	hierarchy *memory.HierarchyRepo
	txr       *memory.Transactor
	cache     *mocks.MockIdempotencyCache
	publisher *mocks.MockEventPublisher
	metrics   *mocks.MockMetricsRecorder

	resolver  *HierarchyResolverImpl
	walletSvc *WalletServiceImpl
	transfers *TransferServiceImpl
	marginSvc *MarginServiceImpl
	recon     *ReconciliationServiceImpl

	admin, dist, dist2, vendor1, vendor2, vendor3, client1, client2 uuid.UUID
}

type fixtureConfig struct {
	limits      domain.Limits
	lockTimeout time.Duration
}

type fixtureOption func(*fixtureConfig)

func withLimits(l domain.Limits) fixtureOption {
	return func(c *fixtureConfig) { c.limits = l }
}

func withLockTimeout(d time.Duration) fixtureOption {
	return func(c *fixtureConfig) { c.lockTimeout = d }
}

func testLimits() domain.Limits {
	l, err := domain.ParseLimits("0.01", "50000.00", "100000.00", "50000.00", []string{"MXN"})
	if err != nil {
		panic(err)
	}
	return l
}

func testPolicy() domain.PricingPolicy {
	return domain.PricingPolicy{
		MinMultiplier:     decimal.NewFromInt(1),
		MaxMultiplier:     decimal.NewFromInt(2),
		PlatformMarkupPct: decimal.NewFromInt(20),
		PlatformSharePct:  decimal.NewFromInt(30),
	}
}

func newLedgerFixture(t *testing.T, opts ...fixtureOption) *ledgerFixture {
	t.Helper()
	cfg := fixtureConfig{limits: testLimits(), lockTimeout: time.Second}
	for _, o := range opts {
		o(&cfg)
	}

	ctrl := gomock.NewController(t)
	store := memory.New(memory.WithLockTimeout(cfg.lockTimeout))
	f := &ledgerFixture{
		ctrl:      ctrl,
		store:     store,
		wallets:   memory.NewWalletRepo(store),
		ledger:    memory.NewLedgerRepo(store),
		margins:   memory.NewMarginRepo(store),
		incidents: memory.NewIncidentRepo(store),
		hierarchy: memory.NewHierarchyRepo(store),
		txr:       memory.NewTransactor(store),
		cache:     mocks.NewMockIdempotencyCache(ctrl),
		publisher: mocks.NewMockEventPublisher(ctrl),
		metrics:   mocks.NewMockMetricsRecorder(ctrl),
	}
	f.metrics.EXPECT().OperationCompleted(gomock.Any(), gomock.Any()).AnyTimes()

	f.admin = f.addActor(t, domain.RoleAdmin, uuid.Nil)
	f.dist = f.addActor(t, domain.RoleDistributor, f.admin)
	f.dist2 = f.addActor(t, domain.RoleDistributor, f.admin)
	f.vendor1 = f.addActor(t, domain.RoleVendor, f.dist)
	f.vendor2 = f.addActor(t, domain.RoleVendor, f.dist)
	f.vendor3 = f.addActor(t, domain.RoleVendor, f.dist2)
	f.client1 = f.addActor(t, domain.RoleClient, f.vendor1)
	f.client2 = f.addActor(t, domain.RoleClient, f.dist)

	log := zerolog.Nop()
	clock := WithClock(func() time.Time { return fixedNow })
	f.resolver = NewHierarchyResolver(f.hierarchy, log)
	f.walletSvc = NewWalletService(f.wallets, f.ledger, f.hierarchy, f.resolver, f.txr, f.publisher, cfg.limits, log,
		WithMetrics(f.metrics), clock)
	f.transfers = NewTransferService(f.wallets, f.ledger, f.hierarchy, f.resolver, f.cache, f.txr, f.publisher, cfg.limits, time.Hour, log,
		WithMetrics(f.metrics), clock)
	f.marginSvc = NewMarginService(f.margins, f.hierarchy, f.resolver, f.txr, testPolicy(), log,
		WithMetrics(f.metrics), clock)
	f.recon = NewReconciliationService(f.wallets, f.ledger, f.incidents, f.hierarchy, f.txr, log,
		WithMetrics(f.metrics), clock)
	return f
}

func (f *ledgerFixture) addActor(t *testing.T, role domain.Role, parent uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.AddActor(domain.Actor{ID: id, Name: string(role), Role: role, Active: true})
	if parent != uuid.Nil {
		require.NoError(t, f.store.Link(parent, id))
	}
	return id
}

func (f *ledgerFixture) deactivate(id uuid.UUID) {
	a, _ := f.hierarchy.GetActor(context.Background(), id)
	a.Active = false
	f.store.AddActor(*a)
}

// allowEvents accepts any number of published events.
func (f *ledgerFixture) allowEvents() {
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()
}

// allowCache makes the idempotency cache a permanent miss.
func (f *ledgerFixture) allowCache() {
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// fund credits owner with amount as the admin.
func (f *ledgerFixture) fund(t *testing.T, owner uuid.UUID, amount string) {
	t.Helper()
	_, err := f.walletSvc.Credit(context.Background(), ports.CreditCommand{
		OwnerID:   owner,
		Amount:    mxn(amount),
		Reference: "fund-" + uuid.NewString(),
		CreatedBy: f.admin,
	})
	require.NoError(t, err)
}

func (f *ledgerFixture) snapshot(t *testing.T, owner uuid.UUID) *domain.WalletSnapshot {
	t.Helper()
	snap, err := f.walletSvc.Snapshot(context.Background(), owner, money.MXN)
	require.NoError(t, err)
	return snap
}

func (f *ledgerFixture) balance(t *testing.T, owner uuid.UUID) money.Money {
	t.Helper()
	return f.snapshot(t, owner).Balance
}

func (f *ledgerFixture) walletOf(t *testing.T, owner uuid.UUID) *domain.Wallet {
	t.Helper()
	w, err := f.wallets.GetByOwner(context.Background(), owner, money.MXN)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

// tamper overwrites a wallet's stored state outside the services.
func (f *ledgerFixture) tamper(t *testing.T, walletID uuid.UUID, fn func(*domain.Wallet)) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.txr.Begin(ctx)
	require.NoError(t, err)
	locked, err := f.wallets.LockByIDs(ctx, tx, walletID)
	require.NoError(t, err)
	fn(locked[0])
	require.NoError(t, f.wallets.Update(ctx, tx, locked[0]))
	require.NoError(t, tx.Commit(ctx))
}

func (f *ledgerFixture) entries(t *testing.T, walletID uuid.UUID) []domain.LedgerEntry {
	t.Helper()
	ctx := context.Background()
	tx, err := f.txr.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx) //nolint:errcheck
	out, err := f.ledger.ListByWallet(ctx, tx, walletID)
	require.NoError(t, err)
	return out
}

func mxn(s string) money.Money {
	return money.MustParse(s, money.MXN)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, code), "expected %s, got %v", code, err)
}
