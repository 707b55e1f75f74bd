package ports

import (
	"context"
	"strings"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
)

const maxReferenceLen = 100

// TokenService handles bearer token operations. Tokens are issued by the
// identity system; Generate exists for operator tooling.
type TokenService interface {
	Generate(actorID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ActorID uuid.UUID
	Role    domain.Role
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventPublisher hands committed-entry events to the outside world. Publish
// must not block and must not fail the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent)
}

// EventSink delivers one event to a downstream system.
type EventSink interface {
	Deliver(ctx context.Context, event domain.LedgerEvent) error
}

// MetricsRecorder receives operational counters.
type MetricsRecorder interface {
	OperationCompleted(op, result string)
	EventDropped()
	EventDelivered(result string)
	IntegrityViolation(kind string)
	ReconcileRun(checked, violations int)
}

// --- Commands ---

// CreditCommand adds funds to the owner's wallet.
type CreditCommand struct {
	OwnerID   uuid.UUID
	Amount    money.Money
	Reference string
	Reason    domain.Reason
	CreatedBy uuid.UUID
}

func (c CreditCommand) Validate() error {
	return validateMovement(c.OwnerID, c.Reference, c.Reason, c.CreatedBy)
}

// DebitCommand removes available funds from the owner's wallet.
type DebitCommand struct {
	OwnerID   uuid.UUID
	Amount    money.Money
	Reference string
	Reason    domain.Reason
	CreatedBy uuid.UUID
}

func (c DebitCommand) Validate() error {
	return validateMovement(c.OwnerID, c.Reference, c.Reason, c.CreatedBy)
}

// BlockCommand reserves available funds.
type BlockCommand struct {
	OwnerID   uuid.UUID
	Amount    money.Money
	Reference string
	Reason    domain.Reason
	CreatedBy uuid.UUID
}

func (c BlockCommand) Validate() error {
	return validateMovement(c.OwnerID, c.Reference, c.Reason, c.CreatedBy)
}

// UnblockCommand releases reserved funds.
type UnblockCommand struct {
	OwnerID   uuid.UUID
	Amount    money.Money
	Reference string
	Reason    domain.Reason
	CreatedBy uuid.UUID
}

func (c UnblockCommand) Validate() error {
	return validateMovement(c.OwnerID, c.Reference, c.Reason, c.CreatedBy)
}

// TransferCommand moves funds between two owners' wallets.
type TransferCommand struct {
	SourceOwnerID      uuid.UUID
	DestinationOwnerID uuid.UUID
	Amount             money.Money
	Reference          string
	InitiatedBy        uuid.UUID
}

func (c TransferCommand) Validate() error {
	if err := validateMovement(c.SourceOwnerID, c.Reference, domain.ReasonTransfer, c.InitiatedBy); err != nil {
		return err
	}
	if c.DestinationOwnerID == uuid.Nil {
		return apperror.Validation("destination owner is required")
	}
	if c.SourceOwnerID == c.DestinationOwnerID {
		return apperror.ErrUnauthorized("Transfers to the same wallet are not allowed")
	}
	return nil
}

// ConfigureMarginCommand creates the margin for an offer and distributor.
type ConfigureMarginCommand struct {
	OfferID            uuid.UUID
	DistributorID      uuid.UUID
	PrecioDistribuidor money.Money
	Delta              money.Money
	ActorID            uuid.UUID
}

func (c ConfigureMarginCommand) Validate() error {
	if c.OfferID == uuid.Nil || c.DistributorID == uuid.Nil || c.ActorID == uuid.Nil {
		return apperror.Validation("offer, distributor and actor are required")
	}
	return nil
}

// UpdateMarginCommand changes the vendor price of an existing margin.
type UpdateMarginCommand struct {
	OfferID           uuid.UUID
	DistributorID     uuid.UUID
	NewPrecioVendedor money.Money
	ActorID           uuid.UUID
}

func (c UpdateMarginCommand) Validate() error {
	if c.OfferID == uuid.Nil || c.DistributorID == uuid.Nil || c.ActorID == uuid.Nil {
		return apperror.Validation("offer, distributor and actor are required")
	}
	return nil
}

func validateMovement(owner uuid.UUID, reference string, reason domain.Reason, createdBy uuid.UUID) error {
	switch {
	case owner == uuid.Nil:
		return apperror.Validation("owner is required")
	case createdBy == uuid.Nil:
		return apperror.Validation("initiating actor is required")
	case strings.TrimSpace(reference) == "":
		return apperror.Validation("reference is required")
	case len(reference) > maxReferenceLen:
		return apperror.Validation("reference is too long")
	case reason != "" && !reason.Valid():
		return apperror.Validation("unknown reason " + string(reason))
	}
	return nil
}

// --- Service Ports (Business Logic) ---

// WalletService performs single-wallet movements.
type WalletService interface {
	Credit(ctx context.Context, cmd CreditCommand) (*domain.LedgerEntry, error)
	Debit(ctx context.Context, cmd DebitCommand) (*domain.LedgerEntry, error)
	Block(ctx context.Context, cmd BlockCommand) (*domain.LedgerEntry, error)
	Unblock(ctx context.Context, cmd UnblockCommand) (*domain.LedgerEntry, error)
	Snapshot(ctx context.Context, ownerID uuid.UUID, currency money.Currency) (*domain.WalletSnapshot, error)
}

// TransferService moves funds between wallets atomically.
type TransferService interface {
	Transfer(ctx context.Context, cmd TransferCommand) (*domain.TransferResult, error)
}

// MarginService owns the margin cascade and offer margin lifecycle.
type MarginService interface {
	ComputeMargins(precioDistribuidor money.Money, cfg domain.VendorMarginConfig) (*domain.OfferMargin, error)
	ConfigureMargin(ctx context.Context, cmd ConfigureMarginCommand) (*domain.OfferMargin, error)
	UpdateVendorPrice(ctx context.Context, cmd UpdateMarginCommand) (*domain.OfferMargin, error)
	ArchiveMargin(ctx context.Context, offerID, distributorID, actorID uuid.UUID) (*domain.OfferMargin, error)
	GetMargin(ctx context.Context, offerID, distributorID uuid.UUID) (*domain.OfferMargin, error)
	Quote(ctx context.Context, offerID, distributorID, actorID uuid.UUID) (*Quote, error)
}

// Quote is the price an actor pays for an offer.
type Quote struct {
	OfferID       uuid.UUID   `json:"offer_id"`
	DistributorID uuid.UUID   `json:"distributor_id"`
	ActorID       uuid.UUID   `json:"actor_id"`
	Role          domain.Role `json:"role"`
	Price         money.Money `json:"price"`
}

// HierarchyResolver answers authorization questions over the actor forest.
type HierarchyResolver interface {
	IsAuthorized(ctx context.Context, actorID, targetID uuid.UUID, perm domain.Permission) (bool, error)
	Authorize(ctx context.Context, actorID, targetID uuid.UUID, perm domain.Permission) error
	Subtree(ctx context.Context, rootID uuid.UUID) (domain.ActorSet, error)
}

// ReconciliationService checks ledgers against stored balances.
type ReconciliationService interface {
	ReconstructBalance(ctx context.Context, walletID uuid.UUID) (money.Money, error)
	ReconcileAll(ctx context.Context) (*ReconcileReport, error)
	ClearIntegrityHold(ctx context.Context, walletID, operatorID uuid.UUID, note string) error
}

// ReconcileReport summarises a reconciliation sweep.
type ReconcileReport struct {
	Checked    int         `json:"checked"`
	Violations int         `json:"violations"`
	Frozen     []uuid.UUID `json:"frozen"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}
