package postgres

import (
	"context"
	"errors"
	"fmt"

	"mexared-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HierarchyRepo implements ports.HierarchyRepository over the actors and
// hierarchy_edges tables, which are owned by the identity system.
type HierarchyRepo struct {
	pool Pool
}

// NewHierarchyRepo creates a new HierarchyRepo.
func NewHierarchyRepo(pool Pool) *HierarchyRepo {
	return &HierarchyRepo{pool: pool}
}

// GetActor fetches an actor, or nil.
func (r *HierarchyRepo) GetActor(ctx context.Context, id uuid.UUID) (*domain.Actor, error) {
	query := `SELECT id, name, role, active FROM actors WHERE id = $1`

	var (
		a    domain.Actor
		role string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &role, &a.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}
	a.Role = domain.Role(role)
	return &a, nil
}

// Children lists the direct children of parentID.
func (r *HierarchyRepo) Children(ctx context.Context, parentID uuid.UUID) ([]domain.HierarchyEdge, error) {
	query := `SELECT parent_id, child_id, relation_type FROM hierarchy_edges WHERE parent_id = $1 ORDER BY child_id`

	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var edges []domain.HierarchyEdge
	for rows.Next() {
		var (
			e   domain.HierarchyEdge
			rel string
		)
		if err := rows.Scan(&e.ParentID, &e.ChildID, &rel); err != nil {
			return nil, fmt.Errorf("scan hierarchy edge: %w", err)
		}
		e.RelationType = domain.RelationType(rel)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
