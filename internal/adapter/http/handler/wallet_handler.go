package handler

import (
	"context"

	"mexared-ledger/internal/adapter/http/dto"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/money"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles single-wallet movements and snapshots.
type WalletHandler struct {
	walletSvc ports.WalletService
	resolver  ports.HierarchyResolver
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, resolver ports.HierarchyResolver) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, resolver: resolver}
}

type movementFunc func(ctx context.Context, owner uuid.UUID, amount money.Money, ref string, reason domain.Reason, actor uuid.UUID) (*domain.LedgerEntry, error)

// Credit handles POST /api/v1/wallets/credit.
func (h *WalletHandler) Credit(c *gin.Context) {
	h.move(c, func(ctx context.Context, owner uuid.UUID, amount money.Money, ref string, reason domain.Reason, actor uuid.UUID) (*domain.LedgerEntry, error) {
		return h.walletSvc.Credit(ctx, ports.CreditCommand{OwnerID: owner, Amount: amount, Reference: ref, Reason: reason, CreatedBy: actor})
	})
}

// Debit handles POST /api/v1/wallets/debit.
func (h *WalletHandler) Debit(c *gin.Context) {
	h.move(c, func(ctx context.Context, owner uuid.UUID, amount money.Money, ref string, reason domain.Reason, actor uuid.UUID) (*domain.LedgerEntry, error) {
		return h.walletSvc.Debit(ctx, ports.DebitCommand{OwnerID: owner, Amount: amount, Reference: ref, Reason: reason, CreatedBy: actor})
	})
}

// Block handles POST /api/v1/wallets/block.
func (h *WalletHandler) Block(c *gin.Context) {
	h.move(c, func(ctx context.Context, owner uuid.UUID, amount money.Money, ref string, reason domain.Reason, actor uuid.UUID) (*domain.LedgerEntry, error) {
		return h.walletSvc.Block(ctx, ports.BlockCommand{OwnerID: owner, Amount: amount, Reference: ref, Reason: reason, CreatedBy: actor})
	})
}

// Unblock handles POST /api/v1/wallets/unblock.
func (h *WalletHandler) Unblock(c *gin.Context) {
	h.move(c, func(ctx context.Context, owner uuid.UUID, amount money.Money, ref string, reason domain.Reason, actor uuid.UUID) (*domain.LedgerEntry, error) {
		return h.walletSvc.Unblock(ctx, ports.UnblockCommand{OwnerID: owner, Amount: amount, Reference: ref, Reason: reason, CreatedBy: actor})
	})
}

func (h *WalletHandler) move(c *gin.Context, fn movementFunc) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := req.Money()
	if err != nil {
		response.Error(c, err)
		return
	}

	entry, err := fn(c.Request.Context(), uuid.MustParse(req.OwnerID), amount, req.Reference, domain.Reason(req.Reason), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Snapshot handles GET /api/v1/wallets/:owner/snapshot.
func (h *WalletHandler) Snapshot(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	owner, ok := pathUUID(c, "owner")
	if !ok {
		return
	}

	var q dto.SnapshotQuery
	if !bindQuery(c, &q) {
		return
	}
	cur := money.MXN
	if q.Currency != "" {
		parsed, err := money.ParseCurrency(q.Currency)
		if err != nil {
			response.Error(c, apperror.ErrUnsupportedCurrency(q.Currency))
			return
		}
		cur = parsed
	}

	// Reads follow the same subtree rule as movements.
	if err := h.resolver.Authorize(c.Request.Context(), actor, owner, domain.PermissionManage); err != nil {
		response.Error(c, err)
		return
	}

	snap, err := h.walletSvc.Snapshot(c.Request.Context(), owner, cur)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}
