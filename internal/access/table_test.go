package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTableRejectsEmptyRoleSet(t *testing.T) {
	_, err := BuildTable([]PolicyDef{
		{Capability: "reports.view", AllowedRoles: nil},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no allowed roles")
}

func TestBuildTableRejectsDuplicateCapability(t *testing.T) {
	_, err := BuildTable([]PolicyDef{
		{Capability: "reports.view", AllowedRoles: []Role{RoleAdmin}},
		{Capability: "reports.view", AllowedRoles: []Role{RoleEmployee}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate capability")
}

func TestBuildTableRejectsUnknownRole(t *testing.T) {
	_, err := BuildTable([]PolicyDef{
		{Capability: "reports.view", AllowedRoles: []Role{"superuser"}},
	})
	require.Error(t, err)
}

func TestBuildTableRejectsAliasCollision(t *testing.T) {
	_, err := BuildTable([]PolicyDef{
		{Capability: "a.view", RouteAliases: []string{"shared"}, AllowedRoles: []Role{RoleAdmin}},
		{Capability: "b.view", RouteAliases: []string{"shared"}, AllowedRoles: []Role{RoleAdmin}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shared")
}

func TestBuildTableRejectsAliasShadowingCapability(t *testing.T) {
	_, err := BuildTable([]PolicyDef{
		{Capability: "a.view", AllowedRoles: []Role{RoleAdmin}},
		{Capability: "b.view", RouteAliases: []string{"a.view"}, AllowedRoles: []Role{RoleAdmin}},
	})
	require.Error(t, err)
}

func TestLookupResolvesAliasesToSamePolicy(t *testing.T) {
	table, err := BuildTable(DefaultPolicies())
	require.NoError(t, err)

	byName, ok := table.Lookup(CapOrdersView)
	require.True(t, ok)
	byAlias, ok := table.Lookup("orders")
	require.True(t, ok)
	byOtherAlias, ok := table.Lookup("orders.list")
	require.True(t, ok)

	assert.Equal(t, byName, byAlias)
	assert.Equal(t, byName, byOtherAlias)
}

func TestLookupUnknownRoute(t *testing.T) {
	table, err := BuildTable(DefaultPolicies())
	require.NoError(t, err)

	_, ok := table.Lookup("does.not.exist")
	assert.False(t, ok)
}

func TestVisibleMatchesEvaluate(t *testing.T) {
	table, err := BuildTable(DefaultPolicies())
	require.NoError(t, err)

	for _, role := range AllRoles() {
		visible := make(map[string]bool)
		for _, name := range table.Visible(role) {
			visible[name] = true
		}
		for _, name := range table.Capabilities() {
			policy, ok := table.Lookup(name)
			require.True(t, ok)
			decision := Evaluate(&Principal{UserID: 1, Role: role}, policy)
			assert.Equal(t, decision.Allowed, visible[name],
				"visibility and evaluation disagree for role %s capability %s", role, name)
		}
	}
}
