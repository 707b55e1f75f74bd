package handler

import (
	"mexared-ledger/internal/adapter/http/dto"
	"mexared-ledger/internal/adapter/http/middleware"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReconcileHandler exposes ledger reconciliation to administrators.
type ReconcileHandler struct {
	reconSvc ports.ReconciliationService
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(reconSvc ports.ReconciliationService) *ReconcileHandler {
	return &ReconcileHandler{reconSvc: reconSvc}
}

// Reconcile handles GET /api/v1/reconcile/:wallet_id. A mismatch answers
// LED_008 and leaves the wallet frozen.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}
	walletID, ok := pathUUID(c, "wallet_id")
	if !ok {
		return
	}

	balance, err := h.reconSvc.ReconstructBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ReconcileResponse{
		WalletID: walletID.String(),
		Balance:  balance,
		Display:  balance.String(),
		Status:   "consistent",
	})
}

// ClearHold handles POST /api/v1/reconcile/:wallet_id/clear.
func (h *ReconcileHandler) ClearHold(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	walletID, ok := pathUUID(c, "wallet_id")
	if !ok {
		return
	}
	var req dto.ClearHoldRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.reconSvc.ClearIntegrityHold(c.Request.Context(), walletID, actor, req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"wallet_id": walletID.String(), "frozen": false})
}

// requireAdmin gates on the token's role claim. The service re-checks the
// actor record for anything that writes.
func requireAdmin(c *gin.Context) bool {
	if middleware.Role(c) != domain.RoleAdmin {
		response.Error(c, apperror.ErrUnauthorized("Administrator role required"))
		return false
	}
	return true
}
