package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const defaultIdempotencyTTL = 24 * time.Hour

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	walletRepo ports.WalletRepository
	ledgerRepo ports.LedgerRepository
	actors     ports.HierarchyRepository
	resolver   ports.HierarchyResolver
	idempCache ports.IdempotencyCache
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	limits     domain.Limits
	cacheTTL   time.Duration
	log        zerolog.Logger
	opts       options
}

// NewTransferService creates a new TransferServiceImpl. A zero cacheTTL
// falls back to 24h.
func NewTransferService(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	actors ports.HierarchyRepository,
	resolver ports.HierarchyResolver,
	idempCache ports.IdempotencyCache,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	limits domain.Limits,
	cacheTTL time.Duration,
	log zerolog.Logger,
	opts ...Option,
) *TransferServiceImpl {
	if cacheTTL <= 0 {
		cacheTTL = defaultIdempotencyTTL
	}
	return &TransferServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		actors:     actors,
		resolver:   resolver,
		idempCache: idempCache,
		transactor: transactor,
		publisher:  publisher,
		limits:     limits,
		cacheTTL:   cacheTTL,
		log:        log,
		opts:       buildOptions(opts),
	}
}

// cachedTransfer is what the fast path stores: the request fields needed to
// tell a replay from a conflicting reuse, plus the original result.
type cachedTransfer struct {
	DestinationOwnerID uuid.UUID             `json:"destination_owner_id"`
	Amount             money.Money           `json:"amount"`
	Result             domain.TransferResult `json:"result"`
}

func transferCacheKey(sourceOwner uuid.UUID, reference string) string {
	return "transfer:" + sourceOwner.String() + ":" + reference
}

// Transfer moves funds between two owners' wallets. Both legs commit or
// neither does.
func (s *TransferServiceImpl) Transfer(ctx context.Context, cmd ports.TransferCommand) (res *domain.TransferResult, err error) {
	defer func() { s.opts.metrics.OperationCompleted("transfer", outcome(err)) }()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := s.limits.CheckAmount(cmd.Amount); err != nil {
		return nil, err
	}

	// Replays go through the same gate as fresh transfers.
	if err := s.authorize(ctx, cmd); err != nil {
		return nil, err
	}

	// Layer 1: Redis idempotency check
	key := transferCacheKey(cmd.SourceOwnerID, cmd.Reference)
	if res, err := s.fromCache(ctx, key, cmd); res != nil || err != nil {
		return res, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	currency := cmd.Amount.Currency()
	src, err := s.walletRepo.Ensure(ctx, dbTx, cmd.SourceOwnerID, currency)
	if err != nil {
		return nil, apperror.From(err, "ensure source wallet")
	}
	dst, err := s.walletRepo.Ensure(ctx, dbTx, cmd.DestinationOwnerID, currency)
	if err != nil {
		return nil, apperror.From(err, "ensure destination wallet")
	}

	locked, err := s.walletRepo.LockByIDs(ctx, dbTx, src.ID, dst.ID)
	if err != nil {
		return nil, apperror.From(err, "lock wallets")
	}
	for _, w := range locked {
		if w.ID == src.ID {
			src = w
		} else {
			dst = w
		}
	}

	debitMv := domain.Movement{
		Direction:    domain.DirectionDebit,
		Amount:       cmd.Amount,
		Reference:    cmd.Reference,
		Reason:       domain.ReasonTransfer,
		Counterparty: &dst.ID,
		CreatedBy:    cmd.InitiatedBy,
	}
	creditMv := domain.Movement{
		Direction:    domain.DirectionCredit,
		Amount:       cmd.Amount,
		Reference:    cmd.Reference,
		Reason:       domain.ReasonTransfer,
		Counterparty: &src.ID,
		CreatedBy:    cmd.InitiatedBy,
	}

	// Layer 2: the source ledger itself
	if res, err := s.replay(ctx, dbTx, src, dst, debitMv); res != nil || err != nil {
		return res, err
	}

	sentToday, err := s.ledgerRepo.SumDebits(ctx, dbTx, src.ID, domain.ReasonTransfer, startOfDay(s.opts.now()))
	if err != nil {
		return nil, apperror.From(err, "sum daily transfers")
	}
	if err := s.limits.CheckDaily(sentToday, cmd.Amount); err != nil {
		return nil, err
	}

	now := s.opts.now()
	debit, err := domain.Record(src, debitMv, now)
	if err != nil {
		return nil, err
	}
	credit, err := domain.Record(dst, creditMv, now)
	if err != nil {
		return nil, err
	}

	for _, w := range []*domain.Wallet{src, dst} {
		if err := s.walletRepo.Update(ctx, dbTx, w); err != nil {
			return nil, apperror.From(err, "update wallet")
		}
	}
	for _, e := range []*domain.LedgerEntry{debit, credit} {
		if err := s.ledgerRepo.Insert(ctx, dbTx, e); err != nil {
			return nil, apperror.From(err, "insert ledger entry")
		}
	}

	if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	res = domain.NewTransferResult(debit, credit)

	// Post-process: cache in Redis (best-effort)
	s.cache(ctx, key, cmd, res)

	s.publisher.Publish(ctx, domain.NewLedgerEvent(debit))
	s.publisher.Publish(ctx, domain.NewLedgerEvent(credit))

	s.log.Info().
		Str("source_wallet_id", src.ID.String()).
		Str("destination_wallet_id", dst.ID.String()).
		Str("reference", cmd.Reference).
		Int64("amount_minor", cmd.Amount.Amount()).
		Str("currency", string(currency)).
		Msg("transfer committed")

	return res, nil
}

func (s *TransferServiceImpl) authorize(ctx context.Context, cmd ports.TransferCommand) error {
	source, err := s.actors.GetActor(ctx, cmd.SourceOwnerID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get source owner: %w", err))
	}
	if source == nil {
		return apperror.ErrNotFound("actor")
	}
	if !source.Active {
		return apperror.ErrAccountInactive()
	}

	if cmd.InitiatedBy != cmd.SourceOwnerID {
		initiator, err := s.actors.GetActor(ctx, cmd.InitiatedBy)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("get initiator: %w", err))
		}
		if initiator == nil || !initiator.Active || initiator.Role != domain.RoleAdmin {
			return apperror.ErrUnauthorized("Only the source owner or an administrator may transfer").
				WithDetail("actor_id", cmd.InitiatedBy.String())
		}
	}
	return s.resolver.Authorize(ctx, cmd.SourceOwnerID, cmd.DestinationOwnerID, domain.PermissionTransfer)
}

func (s *TransferServiceImpl) fromCache(ctx context.Context, key string, cmd ports.TransferCommand) (*domain.TransferResult, error) {
	raw, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
		return nil, nil
	}
	if raw == nil {
		return nil, nil
	}
	var cached cachedTransfer
	if err := json.Unmarshal(raw, &cached); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("unreadable cached transfer, falling through to DB")
		return nil, nil
	}
	if cached.DestinationOwnerID != cmd.DestinationOwnerID || cached.Amount != cmd.Amount {
		return nil, apperror.ErrDuplicateReference(cmd.Reference)
	}
	res := cached.Result
	res.Replayed = true
	return &res, nil
}

// replay looks for an already committed transfer with the same reference.
func (s *TransferServiceImpl) replay(ctx context.Context, dbTx pgx.Tx, src, dst *domain.Wallet, debitMv domain.Movement) (*domain.TransferResult, error) {
	prior, err := s.ledgerRepo.GetByReference(ctx, dbTx, src.ID, debitMv.Reference)
	if err != nil {
		return nil, apperror.From(err, "check reference")
	}
	if prior == nil {
		return nil, nil
	}
	if !prior.Matches(debitMv) {
		return nil, apperror.ErrDuplicateReference(debitMv.Reference)
	}
	credit, err := s.ledgerRepo.GetByReference(ctx, dbTx, dst.ID, debitMv.Reference)
	if err != nil {
		return nil, apperror.From(err, "check reference")
	}
	if credit == nil {
		return nil, apperror.ErrIntegrityViolation("Transfer has a debit leg without its credit leg").
			WithDetail("reference", debitMv.Reference)
	}
	res := domain.NewTransferResult(prior, credit)
	res.Replayed = true
	s.log.Info().
		Str("source_wallet_id", src.ID.String()).
		Str("reference", debitMv.Reference).
		Msg("replayed transfer reference, returning prior result")
	return res, nil
}

func (s *TransferServiceImpl) cache(ctx context.Context, key string, cmd ports.TransferCommand, res *domain.TransferResult) {
	raw, err := json.Marshal(cachedTransfer{
		DestinationOwnerID: cmd.DestinationOwnerID,
		Amount:             cmd.Amount,
		Result:             *res,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to marshal transfer result")
		return
	}
	if err := s.idempCache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache idempotency in redis")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
