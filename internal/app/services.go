package app

import (
	"errors"
	"fmt"

	"mexared-ledger/config"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/internal/service"

	"github.com/rs/zerolog"
)

// Deps are the collaborators the services need beyond storage.
type Deps struct {
	Publisher   ports.EventPublisher
	Idempotency ports.IdempotencyCache
	Metrics     ports.MetricsRecorder
}

// Services is the assembled business layer.
type Services struct {
	Resolver *service.HierarchyResolverImpl
	Wallet   *service.WalletServiceImpl
	Transfer *service.TransferServiceImpl
	Margin   *service.MarginServiceImpl
	Recon    *service.ReconciliationServiceImpl
	Token    *service.JWTTokenService
}

// NewServices wires every ledger service over st.
func NewServices(cfg *config.Config, st *Storage, deps Deps, log zerolog.Logger) (*Services, error) {
	if deps.Publisher == nil || deps.Idempotency == nil {
		return nil, errors.New("app: publisher and idempotency cache are required")
	}

	limits, err := Limits(cfg)
	if err != nil {
		return nil, err
	}
	margin, err := NewMarginService(cfg, st, deps.Metrics, log)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{service.WithMetrics(deps.Metrics)}
	resolver := service.NewHierarchyResolver(st.Hierarchy, log)

	return &Services{
		Resolver: resolver,
		Wallet: service.NewWalletService(
			st.Wallets, st.Ledger, st.Hierarchy, resolver, st.Transactor,
			deps.Publisher, limits, log, opts...,
		),
		Transfer: service.NewTransferService(
			st.Wallets, st.Ledger, st.Hierarchy, resolver, deps.Idempotency, st.Transactor,
			deps.Publisher, limits, cfg.Ledger.IdempotencyTTL, log, opts...,
		),
		Margin: margin,
		Recon:  NewReconciliationService(st, deps.Metrics, log),
		Token:  NewTokenService(cfg),
	}, nil
}

// Limits parses the configured movement limits.
func Limits(cfg *config.Config) (domain.Limits, error) {
	l, err := domain.ParseLimits(
		cfg.Ledger.MinAmount,
		cfg.Ledger.MaxAmount,
		cfg.Ledger.DailyTransferLimit,
		cfg.Ledger.BlockLimit,
		cfg.Ledger.Currencies,
	)
	if err != nil {
		return domain.Limits{}, fmt.Errorf("ledger limits: %w", err)
	}
	return l, nil
}

// NewMarginService builds the margin engine with the configured policy.
func NewMarginService(cfg *config.Config, st *Storage, m ports.MetricsRecorder, log zerolog.Logger) (*service.MarginServiceImpl, error) {
	policy, err := domain.ParsePricingPolicy(
		cfg.Pricing.MinMultiplier,
		cfg.Pricing.MaxMultiplier,
		cfg.Pricing.PlatformMarkupPct,
		cfg.Pricing.PlatformSharePct,
	)
	if err != nil {
		return nil, fmt.Errorf("pricing policy: %w", err)
	}
	resolver := service.NewHierarchyResolver(st.Hierarchy, log)
	return service.NewMarginService(st.Margins, st.Hierarchy, resolver, st.Transactor, policy, log, service.WithMetrics(m)), nil
}

// NewReconciliationService builds the reconciler over st.
func NewReconciliationService(st *Storage, m ports.MetricsRecorder, log zerolog.Logger) *service.ReconciliationServiceImpl {
	return service.NewReconciliationService(
		st.Wallets, st.Ledger, st.Incidents, st.Hierarchy, st.Transactor, log,
		service.WithMetrics(m),
	)
}

// NewTokenService builds the JWT issuer and validator.
func NewTokenService(cfg *config.Config) *service.JWTTokenService {
	return service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
}
