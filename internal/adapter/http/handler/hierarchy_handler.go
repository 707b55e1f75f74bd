package handler

import (
	"mexared-ledger/internal/adapter/http/dto"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HierarchyHandler answers authorization questions for the caller.
type HierarchyHandler struct {
	resolver ports.HierarchyResolver
}

// NewHierarchyHandler creates a new HierarchyHandler.
func NewHierarchyHandler(resolver ports.HierarchyResolver) *HierarchyHandler {
	return &HierarchyHandler{resolver: resolver}
}

// Authorized handles GET /api/v1/hierarchy/authorized?target_id=&permission=.
// The question is always asked for the authenticated actor.
func (h *HierarchyHandler) Authorized(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var q dto.AuthorizedQuery
	if !bindQuery(c, &q) {
		return
	}
	target := uuid.MustParse(q.TargetID)
	perm := domain.Permission(q.Permission)

	allowed, err := h.resolver.IsAuthorized(c.Request.Context(), actor, target, perm)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AuthorizedResponse{
		ActorID:    actor.String(),
		TargetID:   target.String(),
		Permission: perm,
		Authorized: allowed,
	})
}
