package domain

import (
	"errors"
	"time"

	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarginStatus is the lifecycle state of an offer margin.
type MarginStatus string

const (
	MarginStatusActive   MarginStatus = "ACTIVE"
	MarginStatusArchived MarginStatus = "ARCHIVED"
)

// OfferMargin is the derived price and commission breakdown for one offer
// as sold through one distributor.
type OfferMargin struct {
	ID                   uuid.UUID    `json:"id"`
	OfferID              uuid.UUID    `json:"offer_id"`
	DistributorID        uuid.UUID    `json:"distributor_id"`
	PrecioDistribuidor   money.Money  `json:"precio_distribuidor"`
	PrecioVendedor       money.Money  `json:"precio_vendedor"`
	PrecioCliente        money.Money  `json:"precio_cliente"`
	ComisionVendedor     money.Money  `json:"comision_vendedor"`
	ComisionDistribuidor money.Money  `json:"comision_distribuidor"`
	MargenPlataforma     money.Money  `json:"margen_plataforma"`
	Status               MarginStatus `json:"status"`
	Version              int64        `json:"version"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// VendorMarginConfig is the distributor's markup over its own cost.
type VendorMarginConfig struct {
	Delta money.Money `json:"delta"`
}

// PricingPolicy bounds vendor prices and sets the platform's cut.
// Multipliers apply to precio_distribuidor; percentages are 0-100.
type PricingPolicy struct {
	MinMultiplier     decimal.Decimal `json:"min_multiplier"`
	MaxMultiplier     decimal.Decimal `json:"max_multiplier"`
	PlatformMarkupPct decimal.Decimal `json:"platform_markup_pct"`
	PlatformSharePct  decimal.Decimal `json:"platform_share_pct"`
}

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	zeroDec = decimal.Zero
)

// Validate rejects policies that could break price monotonicity.
func (p PricingPolicy) Validate() error {
	switch {
	case p.MinMultiplier.LessThan(one):
		return apperror.Validation("min_multiplier must be at least 1")
	case p.MaxMultiplier.LessThan(p.MinMultiplier):
		return apperror.Validation("max_multiplier must not be below min_multiplier")
	case p.PlatformMarkupPct.LessThan(zeroDec):
		return apperror.Validation("platform_markup_pct must not be negative")
	case p.PlatformSharePct.LessThan(zeroDec) || p.PlatformSharePct.GreaterThan(hundred):
		return apperror.Validation("platform_share_pct must be between 0 and 100")
	}
	return nil
}

// ParsePricingPolicy reads a policy from decimal strings.
func ParsePricingPolicy(minMult, maxMult, markupPct, sharePct string) (PricingPolicy, error) {
	values := make([]decimal.Decimal, 4)
	for i, s := range []string{minMult, maxMult, markupPct, sharePct} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return PricingPolicy{}, apperror.Validation("invalid pricing policy value " + s)
		}
		values[i] = d
	}
	p := PricingPolicy{
		MinMultiplier:     values[0],
		MaxMultiplier:     values[1],
		PlatformMarkupPct: values[2],
		PlatformSharePct:  values[3],
	}
	return p, p.Validate()
}

// ComputeMargins runs the margin cascade:
//
//	precio_vendedor       = precio_distribuidor + delta
//	precio_cliente        = precio_vendedor + markup% of precio_vendedor
//	comision_vendedor     = precio_vendedor - precio_distribuidor
//	margen_plataforma     = share% of (precio_cliente - precio_vendedor)
//	comision_distribuidor = (precio_cliente - precio_vendedor) - margen_plataforma
//
// A vendor price outside the policy bounds is rejected, never clamped.
func ComputeMargins(precioDistribuidor money.Money, cfg VendorMarginConfig, p PricingPolicy) (*OfferMargin, error) {
	if !precioDistribuidor.IsPositive() {
		return nil, apperror.ErrInvalidAmount("precio_distribuidor must be positive")
	}

	pv, err := precioDistribuidor.Add(cfg.Delta)
	if err != nil {
		return nil, moneyError(err)
	}

	lower := precioDistribuidor.Decimal().Mul(p.MinMultiplier)
	upper := precioDistribuidor.Decimal().Mul(p.MaxMultiplier)
	if pv.Decimal().LessThan(lower) || pv.Decimal().GreaterThan(upper) || pv.Amount() < precioDistribuidor.Amount() {
		return nil, apperror.ErrPricingPolicyViolation("precio_vendedor is outside the allowed range").
			WithDetail("precio_vendedor", pv.String()).
			WithDetail("min", lower.StringFixed(money.Scale)).
			WithDetail("max", upper.StringFixed(money.Scale))
	}

	markup, err := pv.Percent(p.PlatformMarkupPct)
	if err != nil {
		return nil, moneyError(err)
	}
	pc, err := pv.Add(markup)
	if err != nil {
		return nil, moneyError(err)
	}

	// pv >= pd and pc >= pv were established above, so these cannot fail.
	cv, _ := pv.Sub(precioDistribuidor)
	spread, _ := pc.Sub(pv)
	mp, err := spread.Percent(p.PlatformSharePct)
	if err != nil {
		return nil, moneyError(err)
	}
	cd, _ := spread.Sub(mp)

	return &OfferMargin{
		PrecioDistribuidor:   precioDistribuidor,
		PrecioVendedor:       pv,
		PrecioCliente:        pc,
		ComisionVendedor:     cv,
		ComisionDistribuidor: cd,
		MargenPlataforma:     mp,
		Status:               MarginStatusActive,
	}, nil
}

// Reprice recomputes m in place for a new vendor price, keeping identity,
// status and creation time.
func (m *OfferMargin) Reprice(newPrecioVendedor money.Money, p PricingPolicy, now time.Time) error {
	delta, err := newPrecioVendedor.Sub(m.PrecioDistribuidor)
	if err != nil {
		return moneyError(err)
	}
	next, err := ComputeMargins(m.PrecioDistribuidor, VendorMarginConfig{Delta: delta}, p)
	if err != nil {
		return err
	}
	m.PrecioVendedor = next.PrecioVendedor
	m.PrecioCliente = next.PrecioCliente
	m.ComisionVendedor = next.ComisionVendedor
	m.ComisionDistribuidor = next.ComisionDistribuidor
	m.MargenPlataforma = next.MargenPlataforma
	m.Version++
	m.UpdatedAt = now
	return nil
}

// CheckInvariants verifies price monotonicity and that the three
// commissions add up to the full spread.
func (m *OfferMargin) CheckInvariants() error {
	pd, pv, pc := m.PrecioDistribuidor.Amount(), m.PrecioVendedor.Amount(), m.PrecioCliente.Amount()
	if pd > pv || pv > pc {
		return apperror.ErrPricingPolicyViolation("prices are not monotonic")
	}
	split := m.ComisionVendedor.Amount() + m.ComisionDistribuidor.Amount() + m.MargenPlataforma.Amount()
	if split != pc-pd {
		return apperror.ErrPricingPolicyViolation("commission split does not cover the spread")
	}
	return nil
}

// IsArchived reports whether the margin is no longer sellable.
func (m *OfferMargin) IsArchived() bool {
	return m.Status == MarginStatusArchived
}

// PriceFor returns the price an actor of the given role pays.
func (m *OfferMargin) PriceFor(role Role) (money.Money, bool) {
	switch role {
	case RoleAdmin, RoleDistributor:
		return m.PrecioDistribuidor, true
	case RoleVendor:
		return m.PrecioVendedor, true
	case RoleClient:
		return m.PrecioCliente, true
	}
	return money.Money{}, false
}

func moneyError(err error) error {
	switch {
	case errors.Is(err, money.ErrCurrencyMismatch):
		return apperror.ErrCurrencyMismatch()
	case errors.Is(err, money.ErrOverflow), errors.Is(err, money.ErrPrecisionLoss):
		return apperror.ErrInvalidAmount(err.Error())
	}
	return apperror.InternalError(err)
}
