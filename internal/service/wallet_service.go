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

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	ledgerRepo ports.LedgerRepository
	actors     ports.HierarchyRepository
	resolver   ports.HierarchyResolver
	transactor ports.DBTransactor
	publisher  ports.EventPublisher
	limits     domain.Limits
	log        zerolog.Logger
	opts       options
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	actors ports.HierarchyRepository,
	resolver ports.HierarchyResolver,
	transactor ports.DBTransactor,
	publisher ports.EventPublisher,
	limits domain.Limits,
	log zerolog.Logger,
	opts ...Option,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		actors:     actors,
		resolver:   resolver,
		transactor: transactor,
		publisher:  publisher,
		limits:     limits,
		log:        log,
		opts:       buildOptions(opts),
	}
}

// Credit adds funds. Only an admin may put money into a wallet directly;
// everyone else receives funds through transfers.
func (s *WalletServiceImpl) Credit(ctx context.Context, cmd ports.CreditCommand) (*domain.LedgerEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.move(ctx, "credit", movement{
		owner:     cmd.OwnerID,
		actor:     cmd.CreatedBy,
		adminOnly: true,
		m:         domain.Movement{Direction: domain.DirectionCredit, Amount: cmd.Amount, Reference: cmd.Reference, Reason: orDefault(cmd.Reason, domain.ReasonDeposit), CreatedBy: cmd.CreatedBy},
	})
}

// Debit removes available funds.
func (s *WalletServiceImpl) Debit(ctx context.Context, cmd ports.DebitCommand) (*domain.LedgerEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.move(ctx, "debit", movement{
		owner:      cmd.OwnerID,
		actor:      cmd.CreatedBy,
		m:          domain.Movement{Direction: domain.DirectionDebit, Amount: cmd.Amount, Reference: cmd.Reference, Reason: orDefault(cmd.Reason, domain.ReasonWithdrawal), CreatedBy: cmd.CreatedBy},
		needActive: true,
	})
}

// Block reserves available funds without changing the balance.
func (s *WalletServiceImpl) Block(ctx context.Context, cmd ports.BlockCommand) (*domain.LedgerEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.move(ctx, "block", movement{
		owner:      cmd.OwnerID,
		actor:      cmd.CreatedBy,
		m:          domain.Movement{Direction: domain.DirectionBlock, Amount: cmd.Amount, Reference: cmd.Reference, Reason: orDefault(cmd.Reason, domain.ReasonHold), CreatedBy: cmd.CreatedBy},
		needActive: true,
	})
}

// Unblock releases reserved funds.
func (s *WalletServiceImpl) Unblock(ctx context.Context, cmd ports.UnblockCommand) (*domain.LedgerEntry, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return s.move(ctx, "unblock", movement{
		owner: cmd.OwnerID,
		actor: cmd.CreatedBy,
		m:     domain.Movement{Direction: domain.DirectionUnblock, Amount: cmd.Amount, Reference: cmd.Reference, Reason: orDefault(cmd.Reason, domain.ReasonRelease), CreatedBy: cmd.CreatedBy},
	})
}

// Snapshot returns the committed balances of the owner's wallet.
func (s *WalletServiceImpl) Snapshot(ctx context.Context, ownerID uuid.UUID, currency money.Currency) (*domain.WalletSnapshot, error) {
	if err := s.limits.CheckCurrency(currency); err != nil {
		return nil, err
	}
	w, err := s.walletRepo.GetByOwner(ctx, ownerID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	snap := w.Snapshot(s.opts.now())
	return &snap, nil
}

type movement struct {
	owner      uuid.UUID
	actor      uuid.UUID
	adminOnly  bool
	needActive bool
	m          domain.Movement
}

func (s *WalletServiceImpl) move(ctx context.Context, op string, mv movement) (entry *domain.LedgerEntry, err error) {
	defer func() { s.opts.metrics.OperationCompleted(op, outcome(err)) }()

	if err := s.limits.CheckAmount(mv.m.Amount); err != nil {
		return nil, err
	}
	if mv.m.Direction == domain.DirectionBlock {
		if err := s.limits.CheckBlock(mv.m.Amount); err != nil {
			return nil, err
		}
	}
	if err := s.authorize(ctx, mv); err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	ensured, err := s.walletRepo.Ensure(ctx, dbTx, mv.owner, mv.m.Amount.Currency())
	if err != nil {
		return nil, apperror.From(err, "ensure wallet")
	}
	locked, err := s.walletRepo.LockByIDs(ctx, dbTx, ensured.ID)
	if err != nil {
		return nil, apperror.From(err, "lock wallet")
	}
	wallet := locked[0]

	prior, err := s.ledgerRepo.GetByReference(ctx, dbTx, wallet.ID, mv.m.Reference)
	if err != nil {
		return nil, apperror.From(err, "check reference")
	}
	if prior != nil {
		if !prior.Matches(mv.m) {
			return nil, apperror.ErrDuplicateReference(mv.m.Reference)
		}
		s.log.Info().
			Str("wallet_id", wallet.ID.String()).
			Str("reference", mv.m.Reference).
			Msg("replayed reference, returning prior entry")
		return prior, nil
	}

	entry, err = domain.Record(wallet, mv.m, s.opts.now())
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Update(ctx, dbTx, wallet); err != nil {
		return nil, apperror.From(err, "update wallet")
	}
	if err := s.ledgerRepo.Insert(ctx, dbTx, entry); err != nil {
		return nil, apperror.From(err, "insert ledger entry")
	}

	if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publisher.Publish(ctx, domain.NewLedgerEvent(entry))

	s.log.Info().
		Str("op", op).
		Str("wallet_id", wallet.ID.String()).
		Str("reference", entry.Reference).
		Int64("amount_minor", entry.Amount.Amount()).
		Str("currency", string(entry.Amount.Currency())).
		Int64("sequence", entry.Sequence).
		Msg("ledger entry committed")

	return entry, nil
}

// authorize checks the initiating actor's rights over the owner's wallet
// and, for outgoing movements, that the owner is still active.
func (s *WalletServiceImpl) authorize(ctx context.Context, mv movement) error {
	owner, err := s.actors.GetActor(ctx, mv.owner)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get owner: %w", err))
	}
	if owner == nil {
		return apperror.ErrNotFound("actor")
	}
	if mv.needActive && !owner.Active {
		return apperror.ErrAccountInactive()
	}

	if mv.adminOnly {
		actor, err := s.actors.GetActor(ctx, mv.actor)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("get actor: %w", err))
		}
		if actor == nil || !actor.Active || actor.Role != domain.RoleAdmin {
			return apperror.ErrUnauthorized("Only an administrator may credit a wallet directly")
		}
		return nil
	}
	return s.resolver.Authorize(ctx, mv.actor, mv.owner, domain.PermissionManage)
}

func orDefault(r, def domain.Reason) domain.Reason {
	if r == "" {
		return def
	}
	return r
}
