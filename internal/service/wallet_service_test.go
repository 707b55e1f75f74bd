package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/internal/core/ports/mocks"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ==================== Credit ====================

func TestWalletService_Credit_Success(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	var published domain.LedgerEvent
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e domain.LedgerEvent) { published = e }).
		Times(1)

	entry, err := f.walletSvc.Credit(ctx, ports.CreditCommand{
		OwnerID:   f.dist,
		Amount:    mxn("100.00"),
		Reference: "DEP-001",
		CreatedBy: f.admin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionCredit, entry.Direction)
	assert.Equal(t, domain.ReasonDeposit, entry.Reason)
	assert.Equal(t, mxn("100.00"), entry.ResultingBalance)
	assert.Equal(t, fixedNow, entry.CreatedAt)
	assert.NotEmpty(t, entry.Hash)

	assert.Equal(t, entry.ID, published.EntryID)
	assert.Equal(t, "DEP-001", published.Reference)

	snap := f.snapshot(t, f.dist)
	assert.Equal(t, mxn("100.00"), snap.Balance)
	assert.Equal(t, mxn("100.00"), snap.Available)
	assert.Equal(t, int64(1), snap.Version)
}

func TestWalletService_Credit_RequiresAdmin(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.walletSvc.Credit(context.Background(), ports.CreditCommand{
		OwnerID:   f.vendor1,
		Amount:    mxn("10.00"),
		Reference: "DEP-002",
		CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeUnauthorized)
}

func TestWalletService_Credit_RejectsBadAmounts(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		amount money.Money
		code   string
	}{
		{"zero", mxn("0"), apperror.CodeInvalidAmount},
		{"negative", mxn("-5.00"), apperror.CodeInvalidAmount},
		{"above max", mxn("50000.01"), apperror.CodeInvalidAmount},
		{"unsupported currency", money.MustParse("10.00", "USD"), apperror.CodeUnsupportedCurrency},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.walletSvc.Credit(ctx, ports.CreditCommand{
				OwnerID:   f.dist,
				Amount:    tc.amount,
				Reference: "DEP-" + tc.name,
				CreatedBy: f.admin,
			})
			assertCode(t, err, tc.code)
		})
	}
}

func TestWalletService_Credit_UnknownOwner(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.walletSvc.Credit(context.Background(), ports.CreditCommand{
		OwnerID:   uuid.New(),
		Amount:    mxn("10.00"),
		Reference: "DEP-003",
		CreatedBy: f.admin,
	})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestWalletService_Command_Validation(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.walletSvc.Debit(context.Background(), ports.DebitCommand{
		OwnerID:   f.dist,
		Amount:    mxn("1.00"),
		Reference: "  ",
		CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeValidation)
}

// ==================== Debit ====================

func TestWalletService_Debit_InsufficientFunds(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.dist, "50.00")

	_, err := f.walletSvc.Debit(context.Background(), ports.DebitCommand{
		OwnerID:   f.dist,
		Amount:    mxn("80.00"),
		Reference: "WD-001",
		CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeInsufficientFunds)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "50.00 MXN", appErr.Details["available"])
	assert.Equal(t, "80.00 MXN", appErr.Details["requested"])

	assert.Equal(t, mxn("50.00"), f.balance(t, f.dist))
	assert.Len(t, f.entries(t, f.walletOf(t, f.dist).ID), 1)
}

func TestWalletService_Debit_Authorization(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.vendor1, "40.00")
	ctx := context.Background()

	// A sibling vendor cannot touch the wallet.
	_, err := f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.vendor1, Amount: mxn("1.00"), Reference: "WD-S", CreatedBy: f.vendor2,
	})
	assertCode(t, err, apperror.CodeUnauthorized)

	// The owning distributor can.
	_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.vendor1, Amount: mxn("1.00"), Reference: "WD-D", CreatedBy: f.dist,
	})
	require.NoError(t, err)

	// Another distributor cannot.
	_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.vendor1, Amount: mxn("1.00"), Reference: "WD-O", CreatedBy: f.dist2,
	})
	assertCode(t, err, apperror.CodeUnauthorized)

	assert.Equal(t, mxn("39.00"), f.balance(t, f.vendor1))
}

func TestWalletService_Debit_InactiveOwner(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.vendor1, "40.00")
	f.deactivate(f.vendor1)

	_, err := f.walletSvc.Debit(context.Background(), ports.DebitCommand{
		OwnerID: f.vendor1, Amount: mxn("1.00"), Reference: "WD-I", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeAccountInactive)
}

// ==================== Block / Unblock ====================

func TestWalletService_BlockedFunds(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.dist, "100.00")
	ctx := context.Background()

	_, err := f.walletSvc.Block(ctx, ports.BlockCommand{
		OwnerID: f.dist, Amount: mxn("30.00"), Reference: "HOLD-1", CreatedBy: f.dist,
	})
	require.NoError(t, err)

	snap := f.snapshot(t, f.dist)
	assert.Equal(t, mxn("100.00"), snap.Balance)
	assert.Equal(t, mxn("30.00"), snap.Blocked)
	assert.Equal(t, mxn("70.00"), snap.Available)

	_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.dist, Amount: mxn("80.00"), Reference: "WD-1", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeInsufficientFunds)

	entry, err := f.walletSvc.Unblock(ctx, ports.UnblockCommand{
		OwnerID: f.dist, Amount: mxn("30.00"), Reference: "REL-1", CreatedBy: f.dist,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonRelease, entry.Reason)

	_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.dist, Amount: mxn("80.00"), Reference: "WD-2", CreatedBy: f.dist,
	})
	require.NoError(t, err)
	assert.Equal(t, mxn("20.00"), f.balance(t, f.dist))
}

func TestWalletService_Unblock_MoreThanBlocked(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.dist, "100.00")

	_, err := f.walletSvc.Unblock(context.Background(), ports.UnblockCommand{
		OwnerID: f.dist, Amount: mxn("1.00"), Reference: "REL-X", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeInvalidAmount)
}

func TestWalletService_Block_Ceiling(t *testing.T) {
	limits := testLimits()
	limits.BlockCeiling = mxn("20.00").Amount()
	f := newLedgerFixture(t, withLimits(limits))
	f.allowEvents()
	f.fund(t, f.dist, "100.00")

	_, err := f.walletSvc.Block(context.Background(), ports.BlockCommand{
		OwnerID: f.dist, Amount: mxn("20.01"), Reference: "HOLD-C", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeLimitExceeded)
}

// ==================== Idempotency ====================

func TestWalletService_ReplayedReference(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)

	cmd := ports.CreditCommand{OwnerID: f.dist, Amount: mxn("25.00"), Reference: "DEP-R", CreatedBy: f.admin}
	first, err := f.walletSvc.Credit(ctx, cmd)
	require.NoError(t, err)

	second, err := f.walletSvc.Credit(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, mxn("25.00"), f.balance(t, f.dist))

	cmd.Amount = mxn("26.00")
	_, err = f.walletSvc.Credit(ctx, cmd)
	assertCode(t, err, apperror.CodeDuplicateReference)

	// Same amount under another reason is a different operation.
	cmd.Amount = mxn("25.00")
	cmd.Reason = domain.ReasonRefund
	_, err = f.walletSvc.Credit(ctx, cmd)
	assertCode(t, err, apperror.CodeDuplicateReference)
	assert.Equal(t, mxn("25.00"), f.balance(t, f.dist))
}

// ==================== Frozen / locks / infrastructure ====================

func TestWalletService_FrozenWalletRejectsMovements(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	f.fund(t, f.dist, "10.00")
	f.tamper(t, f.walletOf(t, f.dist).ID, func(w *domain.Wallet) { w.Frozen = true })

	_, err := f.walletSvc.Debit(context.Background(), ports.DebitCommand{
		OwnerID: f.dist, Amount: mxn("1.00"), Reference: "WD-F", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeIntegrityViolation)
}

func TestWalletService_LockTimeout(t *testing.T) {
	f := newLedgerFixture(t, withLockTimeout(30*time.Millisecond))
	f.allowEvents()
	f.fund(t, f.dist, "10.00")
	ctx := context.Background()

	holder, err := f.txr.Begin(ctx)
	require.NoError(t, err)
	defer holder.Rollback(ctx) //nolint:errcheck
	_, err = f.wallets.LockByIDs(ctx, holder, f.walletOf(t, f.dist).ID)
	require.NoError(t, err)

	_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{
		OwnerID: f.dist, Amount: mxn("1.00"), Reference: "WD-L", CreatedBy: f.dist,
	})
	assertCode(t, err, apperror.CodeLockTimeout)
	assert.Equal(t, mxn("10.00"), f.balance(t, f.dist))
}

func TestWalletService_BeginFailure(t *testing.T) {
	f := newLedgerFixture(t)
	txr := mocks.NewMockDBTransactor(f.ctrl)
	txr.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("connection refused"))

	svc := NewWalletService(f.wallets, f.ledger, f.hierarchy, f.resolver, txr, f.publisher, testLimits(), zerolog.Nop())
	_, err := svc.Credit(context.Background(), ports.CreditCommand{
		OwnerID: f.dist, Amount: mxn("1.00"), Reference: "DEP-B", CreatedBy: f.admin,
	})
	assertCode(t, err, apperror.CodeInternal)
}

func TestWalletService_Snapshot_NoWallet(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.walletSvc.Snapshot(context.Background(), f.client1, money.MXN)
	assertCode(t, err, apperror.CodeNotFound)
}

// Random sequences of movements never drive any balance negative, and the
// ledger always folds back to the stored balances.
func TestWalletService_RandomSequencesStayNonNegative(t *testing.T) {
	f := newLedgerFixture(t)
	f.allowEvents()
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 400; i++ {
		amount := money.New(rng.Int64N(5000)+1, money.MXN)
		ref := uuid.NewString()
		var err error
		switch rng.IntN(4) {
		case 0:
			_, err = f.walletSvc.Credit(ctx, ports.CreditCommand{OwnerID: f.vendor1, Amount: amount, Reference: ref, CreatedBy: f.admin})
		case 1:
			_, err = f.walletSvc.Debit(ctx, ports.DebitCommand{OwnerID: f.vendor1, Amount: amount, Reference: ref, CreatedBy: f.vendor1})
		case 2:
			_, err = f.walletSvc.Block(ctx, ports.BlockCommand{OwnerID: f.vendor1, Amount: amount, Reference: ref, CreatedBy: f.vendor1})
		case 3:
			_, err = f.walletSvc.Unblock(ctx, ports.UnblockCommand{OwnerID: f.vendor1, Amount: amount, Reference: ref, CreatedBy: f.vendor1})
		}
		if err != nil {
			code := apperror.Code(err)
			require.Contains(t, []string{apperror.CodeInsufficientFunds, apperror.CodeInvalidAmount, apperror.CodeNotFound}, code, "op %d: %v", i, err)
		}

		w, getErr := f.wallets.GetByOwner(ctx, f.vendor1, money.MXN)
		require.NoError(t, getErr)
		if w == nil {
			continue
		}
		require.GreaterOrEqual(t, w.Balance.Amount(), int64(0))
		require.GreaterOrEqual(t, w.Blocked.Amount(), int64(0))
		require.GreaterOrEqual(t, w.Available().Amount(), int64(0))
	}

	w := f.walletOf(t, f.vendor1)
	folded, err := f.recon.ReconstructBalance(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Balance, folded)
}
