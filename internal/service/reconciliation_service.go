package service

import (
	"context"
	"fmt"
	"strings"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ReconciliationServiceImpl implements ports.ReconciliationService.
type ReconciliationServiceImpl struct {
	walletRepo   ports.WalletRepository
	ledgerRepo   ports.LedgerRepository
	incidentRepo ports.IncidentRepository
	actors       ports.HierarchyRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
	opts         options
}

// NewReconciliationService creates a new ReconciliationServiceImpl.
func NewReconciliationService(
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	incidentRepo ports.IncidentRepository,
	actors ports.HierarchyRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
	opts ...Option,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		walletRepo:   walletRepo,
		ledgerRepo:   ledgerRepo,
		incidentRepo: incidentRepo,
		actors:       actors,
		transactor:   transactor,
		log:          log,
		opts:         buildOptions(opts),
	}
}

// ReconstructBalance replays the wallet's ledger and compares it with the
// stored balances. On a mismatch or a broken hash chain the wallet is
// frozen, an incident is recorded and IntegrityViolation is returned.
// Stored balances are never corrected here.
func (s *ReconciliationServiceImpl) ReconstructBalance(ctx context.Context, walletID uuid.UUID) (money.Money, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return money.Money{}, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.walletRepo.LockByIDs(ctx, dbTx, walletID)
	if err != nil {
		return money.Money{}, apperror.From(err, "lock wallet")
	}
	w := locked[0]

	balance, incident, err := s.verify(ctx, dbTx, w)
	if err != nil {
		return money.Money{}, err
	}
	if incident == nil {
		return balance, nil
	}

	// Freeze once; later sweeps over a frozen wallet only report.
	if !w.Frozen {
		if err := s.walletRepo.SetFrozen(ctx, dbTx, w.ID, true); err != nil {
			return money.Money{}, apperror.From(err, "freeze wallet")
		}
		if err := s.incidentRepo.Create(ctx, dbTx, incident); err != nil {
			return money.Money{}, apperror.From(err, "record incident")
		}
		if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
			return money.Money{}, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		s.opts.metrics.IntegrityViolation(string(incident.Kind))
		s.log.Error().
			Str("wallet_id", w.ID.String()).
			Str("kind", string(incident.Kind)).
			Str("ledger_balance", incident.LedgerBalance.String()).
			Str("stored_balance", incident.StoredBalance.String()).
			Str("detail", incident.Detail).
			Msg("integrity violation, wallet frozen")
	}

	return money.Money{}, apperror.ErrIntegrityViolation("Ledger does not reconcile with stored balance").
		WithDetail("wallet_id", w.ID.String()).
		WithDetail("invariant", string(incident.Kind)).
		WithDetail("ledger_balance", incident.LedgerBalance.String()).
		WithDetail("stored_balance", incident.StoredBalance.String())
}

// verify folds and chain-checks the ledger of a locked wallet. It returns
// the reconstructed balance, or the incident describing the first problem.
func (s *ReconciliationServiceImpl) verify(ctx context.Context, dbTx pgx.Tx, w *domain.Wallet) (money.Money, *domain.IntegrityIncident, error) {
	entries, err := s.ledgerRepo.ListByWallet(ctx, dbTx, w.ID)
	if err != nil {
		return money.Money{}, nil, apperror.From(err, "list entries")
	}

	incident := &domain.IntegrityIncident{
		ID:            uuid.New(),
		WalletID:      w.ID,
		StoredBalance: w.Balance,
		StoredBlocked: w.Blocked,
		DetectedAt:    s.opts.now(),
	}

	balance, blocked, err := domain.Fold(entries, w.Currency)
	if err != nil {
		incident.Kind = domain.IncidentBalanceMismatch
		incident.LedgerBalance = money.Zero(w.Currency)
		incident.LedgerBlocked = money.Zero(w.Currency)
		incident.Detail = err.Error()
		return money.Money{}, incident, nil
	}
	incident.LedgerBalance = balance
	incident.LedgerBlocked = blocked

	var problems []string
	if balance != w.Balance {
		problems = append(problems, fmt.Sprintf("balance: ledger %s, stored %s", balance, w.Balance))
	}
	if blocked != w.Blocked {
		problems = append(problems, fmt.Sprintf("blocked: ledger %s, stored %s", blocked, w.Blocked))
	}
	if len(problems) > 0 {
		incident.Kind = domain.IncidentBalanceMismatch
		incident.Detail = strings.Join(problems, "; ")
		return money.Money{}, incident, nil
	}

	if err := domain.VerifyChain(entries); err != nil {
		incident.Kind = domain.IncidentHashChainBroken
		incident.Detail = err.Error()
		return money.Money{}, incident, nil
	}
	head := ""
	if n := len(entries); n > 0 {
		head = entries[n-1].Hash
	}
	if head != w.LastHash {
		incident.Kind = domain.IncidentHashChainBroken
		incident.Detail = "wallet head hash does not match newest entry"
		return money.Money{}, incident, nil
	}

	return balance, nil, nil
}

// ReconcileAll checks every wallet. A failure on one wallet does not stop
// the sweep.
func (s *ReconciliationServiceImpl) ReconcileAll(ctx context.Context) (*ports.ReconcileReport, error) {
	report := &ports.ReconcileReport{StartedAt: s.opts.now(), Frozen: []uuid.UUID{}}

	ids, err := s.walletRepo.ListIDs(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++
		_, err := s.ReconstructBalance(ctx, id)
		switch {
		case err == nil:
		case apperror.HasCode(err, apperror.CodeIntegrityViolation):
			report.Violations++
			report.Frozen = append(report.Frozen, id)
		default:
			s.log.Warn().Err(err).Str("wallet_id", id.String()).Msg("reconcile: wallet check failed")
		}
	}

	report.FinishedAt = s.opts.now()
	s.opts.metrics.ReconcileRun(report.Checked, report.Violations)
	s.log.Info().
		Int("checked", report.Checked).
		Int("violations", report.Violations).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("reconciliation sweep finished")
	return report, nil
}

// ClearIntegrityHold unfreezes a wallet after an administrator has repaired
// it. The ledger must reconcile before the hold is released.
func (s *ReconciliationServiceImpl) ClearIntegrityHold(ctx context.Context, walletID, operatorID uuid.UUID, note string) (err error) {
	defer func() { s.opts.metrics.OperationCompleted("clear_hold", outcome(err)) }()

	if strings.TrimSpace(note) == "" {
		return apperror.Validation("resolution note is required")
	}
	operator, err := s.actors.GetActor(ctx, operatorID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get operator: %w", err))
	}
	if operator == nil || !operator.Active || operator.Role != domain.RoleAdmin {
		return apperror.ErrUnauthorized("Only an administrator may clear an integrity hold")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.walletRepo.LockByIDs(ctx, dbTx, walletID)
	if err != nil {
		return apperror.From(err, "lock wallet")
	}
	w := locked[0]
	if !w.Frozen {
		return apperror.ErrConflict("Wallet is not frozen")
	}

	if _, incident, err := s.verify(ctx, dbTx, w); err != nil {
		return err
	} else if incident != nil {
		return apperror.ErrIntegrityViolation("Ledger still does not reconcile").
			WithDetail("wallet_id", w.ID.String()).
			WithDetail("invariant", string(incident.Kind))
	}

	cleared, err := s.incidentRepo.ClearOpen(ctx, dbTx, w.ID, operatorID, note, s.opts.now())
	if err != nil {
		return apperror.From(err, "clear incidents")
	}
	if err := s.walletRepo.SetFrozen(ctx, dbTx, w.ID, false); err != nil {
		return apperror.From(err, "unfreeze wallet")
	}
	if err := dbTx.Commit(context.WithoutCancel(ctx)); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Warn().
		Str("wallet_id", w.ID.String()).
		Str("operator_id", operatorID.String()).
		Int64("incidents_cleared", cleared).
		Str("note", note).
		Msg("integrity hold cleared")
	return nil
}
