package handler

import (
	"mexared-ledger/internal/adapter/http/dto"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MarginHandler exposes the margin cascade and the offer margin lifecycle.
type MarginHandler struct {
	marginSvc ports.MarginService
}

// NewMarginHandler creates a new MarginHandler.
func NewMarginHandler(marginSvc ports.MarginService) *MarginHandler {
	return &MarginHandler{marginSvc: marginSvc}
}

// Compute handles POST /api/v1/margins/compute. Nothing is stored.
func (h *MarginHandler) Compute(c *gin.Context) {
	var req dto.ComputeMarginsRequest
	if !bindJSON(c, &req) {
		return
	}
	pd, err := req.PrecioDistribuidor.Money()
	if err != nil {
		response.Error(c, err)
		return
	}
	delta, err := req.Delta.Money()
	if err != nil {
		response.Error(c, err)
		return
	}

	m, err := h.marginSvc.ComputeMargins(pd, domain.VendorMarginConfig{Delta: delta})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, m)
}

// Configure handles POST /api/v1/margins.
func (h *MarginHandler) Configure(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.ConfigureMarginRequest
	if !bindJSON(c, &req) {
		return
	}
	pd, err := req.PrecioDistribuidor.Money()
	if err != nil {
		response.Error(c, err)
		return
	}
	delta, err := req.Delta.Money()
	if err != nil {
		response.Error(c, err)
		return
	}

	m, err := h.marginSvc.ConfigureMargin(c.Request.Context(), ports.ConfigureMarginCommand{
		OfferID:            uuid.MustParse(req.OfferID),
		DistributorID:      uuid.MustParse(req.DistributorID),
		PrecioDistribuidor: pd,
		Delta:              delta,
		ActorID:            actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, m)
}

// UpdateVendorPrice handles PUT /api/v1/margins/vendor-price.
func (h *MarginHandler) UpdateVendorPrice(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.UpdateVendorPriceRequest
	if !bindJSON(c, &req) {
		return
	}
	pv, err := req.PrecioVendedor.Money()
	if err != nil {
		response.Error(c, err)
		return
	}

	m, err := h.marginSvc.UpdateVendorPrice(c.Request.Context(), ports.UpdateMarginCommand{
		OfferID:           uuid.MustParse(req.OfferID),
		DistributorID:     uuid.MustParse(req.DistributorID),
		NewPrecioVendedor: pv,
		ActorID:           actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, m)
}

// Archive handles POST /api/v1/margins/archive.
func (h *MarginHandler) Archive(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.MarginKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.marginSvc.ArchiveMargin(c.Request.Context(), uuid.MustParse(req.OfferID), uuid.MustParse(req.DistributorID), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, m)
}

// Quote handles GET /api/v1/margins/quote?offer_id=&distributor_id=.
func (h *MarginHandler) Quote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q dto.MarginKeyRequest
	if !bindQuery(c, &q) {
		return
	}

	quote, err := h.marginSvc.Quote(c.Request.Context(), uuid.MustParse(q.OfferID), uuid.MustParse(q.DistributorID), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, quote)
}
