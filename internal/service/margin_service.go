package service

import (
	"context"
	"fmt"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MarginServiceImpl implements ports.MarginService.
type MarginServiceImpl struct {
	marginRepo ports.MarginRepository
	actors     ports.HierarchyRepository
	resolver   ports.HierarchyResolver
	transactor ports.DBTransactor
	policy     domain.PricingPolicy
	log        zerolog.Logger
	opts       options
}

// NewMarginService creates a new MarginServiceImpl.
func NewMarginService(
	marginRepo ports.MarginRepository,
	actors ports.HierarchyRepository,
	resolver ports.HierarchyResolver,
	transactor ports.DBTransactor,
	policy domain.PricingPolicy,
	log zerolog.Logger,
	opts ...Option,
) *MarginServiceImpl {
	return &MarginServiceImpl{
		marginRepo: marginRepo,
		actors:     actors,
		resolver:   resolver,
		transactor: transactor,
		policy:     policy,
		log:        log,
		opts:       buildOptions(opts),
	}
}

// ComputeMargins runs the cascade under the configured policy without
// persisting anything.
func (s *MarginServiceImpl) ComputeMargins(precioDistribuidor money.Money, cfg domain.VendorMarginConfig) (*domain.OfferMargin, error) {
	m, err := domain.ComputeMargins(precioDistribuidor, cfg, s.policy)
	if err != nil {
		return nil, err
	}
	if err := m.CheckInvariants(); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("margin cascade: %w", err))
	}
	return m, nil
}

// ConfigureMargin stores the first margin for an offer sold through a
// distributor.
func (s *MarginServiceImpl) ConfigureMargin(ctx context.Context, cmd ports.ConfigureMarginCommand) (m *domain.OfferMargin, err error) {
	defer func() { s.opts.metrics.OperationCompleted("configure_margin", outcome(err)) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, cmd.ActorID, cmd.DistributorID); err != nil {
		return nil, err
	}

	m, err = s.ComputeMargins(cmd.PrecioDistribuidor, domain.VendorMarginConfig{Delta: cmd.Delta})
	if err != nil {
		return nil, err
	}
	now := s.opts.now()
	m.ID = uuid.New()
	m.OfferID = cmd.OfferID
	m.DistributorID = cmd.DistributorID
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	existing, err := s.marginRepo.GetForUpdate(ctx, dbTx, cmd.OfferID, cmd.DistributorID)
	if err != nil {
		return nil, apperror.From(err, "lock margin")
	}
	if existing != nil {
		return nil, apperror.ErrConflict("Margin already configured for this offer and distributor")
	}
	if err := s.marginRepo.Create(ctx, dbTx, m); err != nil {
		return nil, apperror.From(err, "create margin")
	}
	if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.logMargin(m, "margin configured")
	return m, nil
}

// UpdateVendorPrice re-derives every dependent price for a new
// precio_vendedor. Nothing is persisted unless the result passes the policy.
func (s *MarginServiceImpl) UpdateVendorPrice(ctx context.Context, cmd ports.UpdateMarginCommand) (m *domain.OfferMargin, err error) {
	defer func() { s.opts.metrics.OperationCompleted("update_vendor_price", outcome(err)) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, cmd.ActorID, cmd.DistributorID); err != nil {
		return nil, err
	}

	return s.mutate(ctx, cmd.OfferID, cmd.DistributorID, "vendor price updated", func(m *domain.OfferMargin) error {
		if m.IsArchived() {
			return apperror.ErrConflict("Margin is archived")
		}
		if err := m.Reprice(cmd.NewPrecioVendedor, s.policy, s.opts.now()); err != nil {
			return err
		}
		return m.CheckInvariants()
	})
}

// ArchiveMargin withdraws a margin from sale. Archiving twice is a no-op.
func (s *MarginServiceImpl) ArchiveMargin(ctx context.Context, offerID, distributorID, actorID uuid.UUID) (m *domain.OfferMargin, err error) {
	defer func() { s.opts.metrics.OperationCompleted("archive_margin", outcome(err)) }()

	if err := s.authorizeEdit(ctx, actorID, distributorID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, offerID, distributorID, "margin archived", func(m *domain.OfferMargin) error {
		if m.IsArchived() {
			return errUnchanged
		}
		m.Status = domain.MarginStatusArchived
		m.Version++
		m.UpdatedAt = s.opts.now()
		return nil
	})
}

// GetMargin returns the stored margin.
func (s *MarginServiceImpl) GetMargin(ctx context.Context, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error) {
	m, err := s.marginRepo.Get(ctx, offerID, distributorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get margin: %w", err))
	}
	if m == nil {
		return nil, apperror.ErrNotFound("margin")
	}
	return m, nil
}

// Quote returns the price actorID pays for the offer. The actor must be the
// distributor, an admin, or somewhere below the distributor.
func (s *MarginServiceImpl) Quote(ctx context.Context, offerID, distributorID, actorID uuid.UUID) (*ports.Quote, error) {
	actor, err := s.actors.GetActor(ctx, actorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get actor: %w", err))
	}
	if actor == nil {
		return nil, apperror.ErrNotFound("actor")
	}
	if !actor.Active {
		return nil, apperror.ErrAccountInactive()
	}
	if actor.Role != domain.RoleAdmin {
		if err := s.resolver.Authorize(ctx, distributorID, actorID, domain.PermissionManage); err != nil {
			return nil, err
		}
	}

	m, err := s.GetMargin(ctx, offerID, distributorID)
	if err != nil {
		return nil, err
	}
	if m.IsArchived() {
		return nil, apperror.ErrNotFound("margin")
	}
	price, ok := m.PriceFor(actor.Role)
	if !ok {
		return nil, apperror.Validation("no price applies to role " + string(actor.Role))
	}
	return &ports.Quote{
		OfferID:       offerID,
		DistributorID: distributorID,
		ActorID:       actorID,
		Role:          actor.Role,
		Price:         price,
	}, nil
}

// errUnchanged lets a mutation skip the write and return the margin as is.
var errUnchanged = fmt.Errorf("margin unchanged")

func (s *MarginServiceImpl) mutate(ctx context.Context, offerID, distributorID uuid.UUID, msg string, fn func(*domain.OfferMargin) error) (*domain.OfferMargin, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	m, err := s.marginRepo.GetForUpdate(ctx, dbTx, offerID, distributorID)
	if err != nil {
		return nil, apperror.From(err, "lock margin")
	}
	if m == nil {
		return nil, apperror.ErrNotFound("margin")
	}

	if err := fn(m); err != nil {
		if err == errUnchanged {
			return m, nil
		}
		return nil, err
	}
	if err := s.marginRepo.Update(ctx, dbTx, m); err != nil {
		return nil, apperror.From(err, "update margin")
	}
	if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.logMargin(m, msg)
	return m, nil
}

// authorizeEdit requires MARGIN_EDIT on a distributor that exists.
func (s *MarginServiceImpl) authorizeEdit(ctx context.Context, actorID, distributorID uuid.UUID) error {
	dist, err := s.actors.GetActor(ctx, distributorID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get distributor: %w", err))
	}
	if dist == nil || dist.Role != domain.RoleDistributor {
		return apperror.ErrNotFound("distributor")
	}
	return s.resolver.Authorize(ctx, actorID, distributorID, domain.PermissionMarginEdit)
}

func (s *MarginServiceImpl) logMargin(m *domain.OfferMargin, msg string) {
	s.log.Info().
		Str("offer_id", m.OfferID.String()).
		Str("distributor_id", m.DistributorID.String()).
		Int64("precio_vendedor_minor", m.PrecioVendedor.Amount()).
		Int64("precio_cliente_minor", m.PrecioCliente.Amount()).
		Str("status", string(m.Status)).
		Int64("version", m.Version).
		Msg(msg)
}
