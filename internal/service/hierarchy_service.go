package service

import (
	"context"
	"fmt"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HierarchyResolverImpl implements ports.HierarchyResolver over the
// distributor → vendor → client forest.
type HierarchyResolverImpl struct {
	repo ports.HierarchyRepository
	log  zerolog.Logger
}

// NewHierarchyResolver creates a new HierarchyResolverImpl.
func NewHierarchyResolver(repo ports.HierarchyRepository, log zerolog.Logger) *HierarchyResolverImpl {
	return &HierarchyResolverImpl{repo: repo, log: log}
}

// Subtree returns every descendant of rootID, excluding rootID itself.
func (r *HierarchyResolverImpl) Subtree(ctx context.Context, rootID uuid.UUID) (domain.ActorSet, error) {
	seen := domain.ActorSet{rootID: {}}
	out := domain.ActorSet{}
	queue := []uuid.UUID{rootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		edges, err := r.repo.Children(ctx, id)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("children of %s: %w", id, err))
		}
		for _, e := range edges {
			if seen.Contains(e.ChildID) {
				r.log.Warn().
					Str("parent_id", id.String()).
					Str("child_id", e.ChildID.String()).
					Msg("hierarchy: edge revisits a node, skipping")
				continue
			}
			seen[e.ChildID] = struct{}{}
			out[e.ChildID] = struct{}{}
			queue = append(queue, e.ChildID)
		}
	}
	return out, nil
}

// IsAuthorized answers whether actorID may exercise perm on targetID. An
// unknown or inactive actor is never authorized.
func (r *HierarchyResolverImpl) IsAuthorized(ctx context.Context, actorID, targetID uuid.UUID, perm domain.Permission) (bool, error) {
	actor, err := r.repo.GetActor(ctx, actorID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get actor: %w", err))
	}
	if actor == nil || !actor.Active {
		return false, nil
	}

	switch perm {
	case domain.PermissionManage:
		if actorID == targetID || actor.Role == domain.RoleAdmin {
			return true, nil
		}
		return r.inSubtree(ctx, actorID, targetID)

	case domain.PermissionTransfer:
		if actorID == targetID {
			return false, nil
		}
		target, err := r.repo.GetActor(ctx, targetID)
		if err != nil {
			return false, apperror.InternalError(fmt.Errorf("get target actor: %w", err))
		}
		if target == nil || !domain.CanTransferTo(actor.Role, target.Role) {
			return false, nil
		}
		if actor.Role == domain.RoleAdmin {
			return true, nil
		}
		return r.inSubtree(ctx, actorID, targetID)

	case domain.PermissionMarginEdit:
		if actor.Role == domain.RoleAdmin {
			return true, nil
		}
		return actorID == targetID && actor.Role == domain.RoleDistributor, nil
	}
	return false, nil
}

// Authorize is IsAuthorized returning Unauthorized on denial.
func (r *HierarchyResolverImpl) Authorize(ctx context.Context, actorID, targetID uuid.UUID, perm domain.Permission) error {
	ok, err := r.IsAuthorized(ctx, actorID, targetID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrUnauthorized(fmt.Sprintf("Actor is not allowed to %s this account", permVerb(perm))).
			WithDetail("actor_id", actorID.String()).
			WithDetail("target_id", targetID.String())
	}
	return nil
}

func (r *HierarchyResolverImpl) inSubtree(ctx context.Context, rootID, targetID uuid.UUID) (bool, error) {
	set, err := r.Subtree(ctx, rootID)
	if err != nil {
		return false, err
	}
	return set.Contains(targetID), nil
}

func permVerb(p domain.Permission) string {
	switch p {
	case domain.PermissionTransfer:
		return "transfer to"
	case domain.PermissionMarginEdit:
		return "edit margins of"
	}
	return "manage"
}
