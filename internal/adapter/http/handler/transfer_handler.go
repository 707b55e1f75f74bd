package handler

import (
	"mexared-ledger/internal/adapter/http/dto"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles wallet-to-wallet transfers.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /api/v1/transfers. A replayed reference answers 200
// with the original result instead of 201.
func (h *TransferHandler) Transfer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := req.Money()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferCommand{
		SourceOwnerID:      uuid.MustParse(req.SourceOwnerID),
		DestinationOwnerID: uuid.MustParse(req.DestinationOwnerID),
		Amount:             amount,
		Reference:          req.Reference,
		InitiatedBy:        actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Replayed {
		c.Header("Idempotent-Replayed", "true")
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}
