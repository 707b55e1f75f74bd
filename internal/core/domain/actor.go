package domain

import (
	"github.com/google/uuid"
)

// Role is an actor's position in the reseller hierarchy.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleDistributor Role = "DISTRIBUIDOR"
	RoleVendor      Role = "VENDEDOR"
	RoleClient      Role = "CLIENTE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDistributor, RoleVendor, RoleClient:
		return true
	}
	return false
}

// Actor is any party that owns a wallet.
type Actor struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
	Active bool      `json:"active"`
}

// RelationType names the kind of parent-child edge.
type RelationType string

const (
	RelationAdminDistributor  RelationType = "ADMIN_DISTRIBUTOR"
	RelationDistributorVendor RelationType = "DISTRIBUTOR_VENDOR"
	RelationDistributorClient RelationType = "DISTRIBUTOR_CLIENT"
	RelationVendorClient      RelationType = "VENDOR_CLIENT"
)

// RelationFor returns the edge type for a parent/child role pair.
func RelationFor(parent, child Role) (RelationType, bool) {
	switch {
	case parent == RoleAdmin && child == RoleDistributor:
		return RelationAdminDistributor, true
	case parent == RoleDistributor && child == RoleVendor:
		return RelationDistributorVendor, true
	case parent == RoleDistributor && child == RoleClient:
		return RelationDistributorClient, true
	case parent == RoleVendor && child == RoleClient:
		return RelationVendorClient, true
	}
	return "", false
}

// HierarchyEdge links a parent actor to a direct child.
type HierarchyEdge struct {
	ParentID     uuid.UUID    `json:"parent_id"`
	ChildID      uuid.UUID    `json:"child_id"`
	RelationType RelationType `json:"relation_type"`
}

// Permission is the kind of access checked by the hierarchy resolver.
type Permission string

const (
	// PermissionTransfer: move funds from the actor's wallet to target's.
	PermissionTransfer Permission = "TRANSFER"
	// PermissionManage: act on target's wallet (target is self or below).
	PermissionManage Permission = "MANAGE"
	// PermissionMarginEdit: change vendor pricing of target's margins.
	PermissionMarginEdit Permission = "MARGIN_EDIT"
)

// transferMatrix lists the destination roles each source role may fund.
var transferMatrix = map[Role][]Role{
	RoleAdmin:       {RoleDistributor, RoleVendor},
	RoleDistributor: {RoleVendor, RoleClient},
	RoleVendor:      {RoleClient},
}

// CanTransferTo reports whether a wallet owned by role from may fund a
// wallet owned by role to.
func CanTransferTo(from, to Role) bool {
	for _, r := range transferMatrix[from] {
		if r == to {
			return true
		}
	}
	return false
}

// ActorSet is a set of actor ids.
type ActorSet map[uuid.UUID]struct{}

func (s ActorSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}
