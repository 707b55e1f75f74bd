package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarginService_ComputeMargins_Cascade(t *testing.T) {
	f := newLedgerFixture(t)

	m, err := f.marginSvc.ComputeMargins(mxn("80.00"), domain.VendorMarginConfig{Delta: mxn("20.00")})
	require.NoError(t, err)
	assert.Equal(t, mxn("100.00"), m.PrecioVendedor)
	assert.Equal(t, mxn("120.00"), m.PrecioCliente)
	assert.Equal(t, mxn("20.00"), m.ComisionVendedor)
	assert.Equal(t, mxn("6.00"), m.MargenPlataforma)
	assert.Equal(t, mxn("14.00"), m.ComisionDistribuidor)
}

func TestMarginService_ComputeMargins_OutsidePolicy(t *testing.T) {
	f := newLedgerFixture(t)

	tests := []struct {
		name  string
		delta money.Money
	}{
		{"above max multiplier", mxn("80.01")},
		{"below cost", mxn("-0.01")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.marginSvc.ComputeMargins(mxn("80.00"), domain.VendorMarginConfig{Delta: tc.delta})
			assertCode(t, err, apperror.CodePricingPolicyViolation)
		})
	}
}

// Over random inputs every accepted cascade is monotonic and its three
// commissions add up to the full spread.
func TestMarginService_ComputeMargins_Properties(t *testing.T) {
	f := newLedgerFixture(t)
	rng := rand.New(rand.NewPCG(3, 5))

	for i := 0; i < 500; i++ {
		pd := money.New(rng.Int64N(1_000_000)+1, money.MXN)
		delta := money.New(rng.Int64N(pd.Amount()+1), money.MXN)

		m, err := f.marginSvc.ComputeMargins(pd, domain.VendorMarginConfig{Delta: delta})
		require.NoError(t, err, "pd=%s delta=%s", pd, delta)
		require.LessOrEqual(t, m.PrecioDistribuidor.Amount(), m.PrecioVendedor.Amount())
		require.LessOrEqual(t, m.PrecioVendedor.Amount(), m.PrecioCliente.Amount())
		split := m.ComisionVendedor.Amount() + m.ComisionDistribuidor.Amount() + m.MargenPlataforma.Amount()
		require.Equal(t, m.PrecioCliente.Amount()-m.PrecioDistribuidor.Amount(), split)
	}
}

func TestMarginService_ConfigureMargin(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	offer := uuid.New()

	cmd := ports.ConfigureMarginCommand{
		OfferID:            offer,
		DistributorID:      f.dist,
		PrecioDistribuidor: mxn("80.00"),
		Delta:              mxn("20.00"),
		ActorID:            f.dist,
	}
	m, err := f.marginSvc.ConfigureMargin(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Version)
	assert.Equal(t, domain.MarginStatusActive, m.Status)
	assert.Equal(t, fixedNow, m.CreatedAt)

	stored, err := f.marginSvc.GetMargin(ctx, offer, f.dist)
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)
	assert.Equal(t, mxn("120.00"), stored.PrecioCliente)

	_, err = f.marginSvc.ConfigureMargin(ctx, cmd)
	assertCode(t, err, apperror.CodeConflict)
}

func TestMarginService_ConfigureMargin_Authorization(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		actor       uuid.UUID
		distributor uuid.UUID
		code        string
	}{
		{"admin", f.admin, f.dist, ""},
		{"vendor", f.vendor1, f.dist, apperror.CodeUnauthorized},
		{"other distributor", f.dist2, f.dist, apperror.CodeUnauthorized},
		{"target is not a distributor", f.admin, f.vendor1, apperror.CodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.marginSvc.ConfigureMargin(ctx, ports.ConfigureMarginCommand{
				OfferID:            uuid.New(),
				DistributorID:      tc.distributor,
				PrecioDistribuidor: mxn("50.00"),
				Delta:              mxn("5.00"),
				ActorID:            tc.actor,
			})
			if tc.code == "" {
				require.NoError(t, err)
				return
			}
			assertCode(t, err, tc.code)
		})
	}
}

func TestMarginService_UpdateVendorPrice(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	offer := uuid.New()

	_, err := f.marginSvc.ConfigureMargin(ctx, ports.ConfigureMarginCommand{
		OfferID: offer, DistributorID: f.dist, PrecioDistribuidor: mxn("80.00"), Delta: mxn("20.00"), ActorID: f.dist,
	})
	require.NoError(t, err)

	m, err := f.marginSvc.UpdateVendorPrice(ctx, ports.UpdateMarginCommand{
		OfferID: offer, DistributorID: f.dist, NewPrecioVendedor: mxn("90.00"), ActorID: f.dist,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.Version)
	assert.Equal(t, mxn("90.00"), m.PrecioVendedor)
	assert.Equal(t, mxn("108.00"), m.PrecioCliente)
	assert.Equal(t, mxn("10.00"), m.ComisionVendedor)
	assert.NoError(t, m.CheckInvariants())

	// A price outside the policy is rejected and nothing is stored.
	_, err = f.marginSvc.UpdateVendorPrice(ctx, ports.UpdateMarginCommand{
		OfferID: offer, DistributorID: f.dist, NewPrecioVendedor: mxn("170.00"), ActorID: f.dist,
	})
	assertCode(t, err, apperror.CodePricingPolicyViolation)

	stored, err := f.marginSvc.GetMargin(ctx, offer, f.dist)
	require.NoError(t, err)
	assert.Equal(t, mxn("90.00"), stored.PrecioVendedor)
	assert.Equal(t, int64(2), stored.Version)
}

func TestMarginService_UpdateVendorPrice_Missing(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.marginSvc.UpdateVendorPrice(context.Background(), ports.UpdateMarginCommand{
		OfferID: uuid.New(), DistributorID: f.dist, NewPrecioVendedor: mxn("90.00"), ActorID: f.dist,
	})
	assertCode(t, err, apperror.CodeNotFound)
}

func TestMarginService_Archive(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	offer := uuid.New()

	_, err := f.marginSvc.ConfigureMargin(ctx, ports.ConfigureMarginCommand{
		OfferID: offer, DistributorID: f.dist, PrecioDistribuidor: mxn("80.00"), Delta: mxn("20.00"), ActorID: f.dist,
	})
	require.NoError(t, err)

	m, err := f.marginSvc.ArchiveMargin(ctx, offer, f.dist, f.admin)
	require.NoError(t, err)
	assert.True(t, m.IsArchived())
	assert.Equal(t, int64(2), m.Version)

	again, err := f.marginSvc.ArchiveMargin(ctx, offer, f.dist, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Version)

	_, err = f.marginSvc.UpdateVendorPrice(ctx, ports.UpdateMarginCommand{
		OfferID: offer, DistributorID: f.dist, NewPrecioVendedor: mxn("90.00"), ActorID: f.dist,
	})
	assertCode(t, err, apperror.CodeConflict)

	_, err = f.marginSvc.Quote(ctx, offer, f.dist, f.vendor1)
	assertCode(t, err, apperror.CodeNotFound)
}

func TestMarginService_Quote(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	offer := uuid.New()

	_, err := f.marginSvc.ConfigureMargin(ctx, ports.ConfigureMarginCommand{
		OfferID: offer, DistributorID: f.dist, PrecioDistribuidor: mxn("80.00"), Delta: mxn("20.00"), ActorID: f.dist,
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor uuid.UUID
		price money.Money
		code  string
	}{
		{"distributor", f.dist, mxn("80.00"), ""},
		{"admin", f.admin, mxn("80.00"), ""},
		{"vendor", f.vendor1, mxn("100.00"), ""},
		{"client under vendor", f.client1, mxn("120.00"), ""},
		{"client under distributor", f.client2, mxn("120.00"), ""},
		{"vendor of another distributor", f.vendor3, money.Money{}, apperror.CodeUnauthorized},
		{"unknown actor", uuid.New(), money.Money{}, apperror.CodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := f.marginSvc.Quote(ctx, offer, f.dist, tc.actor)
			if tc.code != "" {
				assertCode(t, err, tc.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.price, q.Price)
		})
	}
}
