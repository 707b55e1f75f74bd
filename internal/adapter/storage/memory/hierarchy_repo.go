package memory

import (
	"context"
	"slices"

	"mexared-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// HierarchyRepo implements ports.HierarchyRepository.
type HierarchyRepo struct {
	s *Store
}

// NewHierarchyRepo creates a new HierarchyRepo.
func NewHierarchyRepo(s *Store) *HierarchyRepo {
	return &HierarchyRepo{s: s}
}

func (r *HierarchyRepo) GetActor(_ context.Context, id uuid.UUID) (*domain.Actor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.actors[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *HierarchyRepo) Children(_ context.Context, parentID uuid.UUID) ([]domain.HierarchyEdge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.children[parentID]), nil
}
