package service

import (
	"context"
	"errors"
	"testing"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports/mocks"
	"mexared-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHierarchyResolver_IsAuthorized(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  uuid.UUID
		target uuid.UUID
		perm   domain.Permission
		want   bool
	}{
		{"manage self", f.vendor1, f.vendor1, domain.PermissionManage, true},
		{"manage as admin", f.admin, f.client1, domain.PermissionManage, true},
		{"manage grandchild", f.dist, f.client1, domain.PermissionManage, true},
		{"manage sibling", f.vendor1, f.vendor2, domain.PermissionManage, false},
		{"manage parent", f.vendor1, f.dist, domain.PermissionManage, false},
		{"manage other branch", f.dist2, f.vendor1, domain.PermissionManage, false},

		{"transfer distributor to vendor", f.dist, f.vendor1, domain.PermissionTransfer, true},
		{"transfer distributor to own client", f.dist, f.client2, domain.PermissionTransfer, true},
		{"transfer distributor to grandchild client", f.dist, f.client1, domain.PermissionTransfer, true},
		{"transfer vendor to client", f.vendor1, f.client1, domain.PermissionTransfer, true},
		{"transfer vendor to vendor", f.vendor1, f.vendor2, domain.PermissionTransfer, false},
		{"transfer vendor to foreign client", f.vendor1, f.client2, domain.PermissionTransfer, false},
		{"transfer admin to distributor", f.admin, f.dist2, domain.PermissionTransfer, true},
		{"transfer admin to client", f.admin, f.client1, domain.PermissionTransfer, false},
		{"transfer to self", f.dist, f.dist, domain.PermissionTransfer, false},
		{"transfer client to anyone", f.client1, f.vendor1, domain.PermissionTransfer, false},
		{"transfer to unknown", f.dist, uuid.New(), domain.PermissionTransfer, false},

		{"margin edit own", f.dist, f.dist, domain.PermissionMarginEdit, true},
		{"margin edit admin", f.admin, f.dist, domain.PermissionMarginEdit, true},
		{"margin edit other distributor", f.dist2, f.dist, domain.PermissionMarginEdit, false},
		{"margin edit vendor", f.vendor1, f.vendor1, domain.PermissionMarginEdit, false},

		{"unknown actor", uuid.New(), f.vendor1, domain.PermissionManage, false},
		{"unknown permission", f.admin, f.dist, domain.Permission("DELETE"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.resolver.IsAuthorized(ctx, tc.actor, tc.target, tc.perm)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHierarchyResolver_InactiveActorIsNeverAuthorized(t *testing.T) {
	f := newLedgerFixture(t)
	f.deactivate(f.dist)

	for _, perm := range []domain.Permission{domain.PermissionManage, domain.PermissionTransfer, domain.PermissionMarginEdit} {
		ok, err := f.resolver.IsAuthorized(context.Background(), f.dist, f.vendor1, perm)
		require.NoError(t, err)
		assert.False(t, ok, string(perm))
	}
}

func TestHierarchyResolver_Subtree(t *testing.T) {
	f := newLedgerFixture(t)

	set, err := f.resolver.Subtree(context.Background(), f.dist)
	require.NoError(t, err)
	assert.Len(t, set, 4)
	for _, id := range []uuid.UUID{f.vendor1, f.vendor2, f.client1, f.client2} {
		assert.True(t, set.Contains(id))
	}
	assert.False(t, set.Contains(f.dist))
	assert.False(t, set.Contains(f.vendor3))
}

func TestHierarchyResolver_Subtree_CycleTerminates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHierarchyRepository(ctrl)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	repo.EXPECT().Children(gomock.Any(), a).Return([]domain.HierarchyEdge{{ParentID: a, ChildID: b}}, nil)
	repo.EXPECT().Children(gomock.Any(), b).Return([]domain.HierarchyEdge{{ParentID: b, ChildID: c}}, nil)
	repo.EXPECT().Children(gomock.Any(), c).Return([]domain.HierarchyEdge{{ParentID: c, ChildID: a}}, nil)

	set, err := NewHierarchyResolver(repo, zerolog.Nop()).Subtree(context.Background(), a)
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.True(t, set.Contains(b))
	assert.True(t, set.Contains(c))
}

func TestHierarchyResolver_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHierarchyRepository(ctrl)
	repo.EXPECT().GetActor(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := NewHierarchyResolver(repo, zerolog.Nop()).IsAuthorized(context.Background(), uuid.New(), uuid.New(), domain.PermissionManage)
	assertCode(t, err, apperror.CodeInternal)
}

func TestHierarchyResolver_Authorize(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	require.NoError(t, f.resolver.Authorize(ctx, f.dist, f.vendor1, domain.PermissionTransfer))

	err := f.resolver.Authorize(ctx, f.vendor1, f.vendor2, domain.PermissionTransfer)
	assertCode(t, err, apperror.CodeUnauthorized)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, f.vendor1.String(), appErr.Details["actor_id"])
	assert.Equal(t, f.vendor2.String(), appErr.Details["target_id"])
}
