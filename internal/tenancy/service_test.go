package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopegate/scopegate/internal/shared"
)

type stubMemberships struct {
	businesses []Business
	err        error
}

func (s *stubMemberships) ListMemberships(ctx context.Context, userID int64) ([]Business, error) {
	return s.businesses, s.err
}

func TestBuildScopeDefaultsWithoutPersistedSelection(t *testing.T) {
	service := NewService(&stubMemberships{businesses: testMemberships()}, DefaultCatalog(), nil)

	scope, restored, err := service.BuildScope(context.Background(), 1, "", "")
	require.NoError(t, err)

	assert.True(t, restored)
	assert.Equal(t, "grabba", scope.Current().Slug)
	assert.True(t, scope.CurrentBrand().IsAll())
}

func TestBuildScopeReplaysPersistedSelection(t *testing.T) {
	service := NewService(&stubMemberships{businesses: testMemberships()}, DefaultCatalog(), nil)

	scope, restored, err := service.BuildScope(context.Background(), 1, "northwind", "northwind")
	require.NoError(t, err)

	assert.True(t, restored)
	assert.Equal(t, "northwind", scope.Current().Slug)
	assert.Equal(t, "northwind", scope.CurrentBrand().Key)
}

func TestBuildScopeDropsRevokedSelection(t *testing.T) {
	service := NewService(&stubMemberships{businesses: testMemberships()}, DefaultCatalog(), nil)

	scope, restored, err := service.BuildScope(context.Background(), 1, "meridian", "")
	require.NoError(t, err)

	assert.False(t, restored, "revoked selection must report as dropped")
	assert.Equal(t, "grabba", scope.Current().Slug, "scope falls back to the default membership")
}

func TestBuildScopeDropsForeignBrandSelection(t *testing.T) {
	service := NewService(&stubMemberships{businesses: testMemberships()}, DefaultCatalog(), nil)

	scope, restored, err := service.BuildScope(context.Background(), 1, "northwind", "gasmask")
	require.NoError(t, err)

	assert.False(t, restored)
	assert.Equal(t, "grabba", scope.Current().Slug)
}

func TestBuildScopeWithoutMemberships(t *testing.T) {
	service := NewService(&stubMemberships{}, DefaultCatalog(), nil)

	_, _, err := service.BuildScope(context.Background(), 1, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
