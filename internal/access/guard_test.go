package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateNilPrincipalAlwaysNoSession(t *testing.T) {
	policy := AccessPolicy{
		Capability:   "anything",
		AllowedRoles: AllRoles(),
	}

	decision := Evaluate(nil, policy)

	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoSession, decision.Reason)
}

func TestEvaluateRoleMembership(t *testing.T) {
	policy := AccessPolicy{
		Capability:   CapWarehouseOps,
		AllowedRoles: []Role{RoleAdmin, RoleWarehouse},
	}

	for _, role := range AllRoles() {
		decision := Evaluate(&Principal{UserID: 7, Role: role}, policy)
		if role == RoleAdmin || role == RoleWarehouse {
			assert.True(t, decision.Allowed, "role %s should pass", role)
			assert.Equal(t, ReasonGranted, decision.Reason)
		} else {
			assert.False(t, decision.Allowed, "role %s should be denied", role)
			assert.Equal(t, ReasonRoleNotAllowed, decision.Reason)
		}
	}
}

func TestEvaluateIgnoresDenyBehaviorWhenAllowed(t *testing.T) {
	staffOnly := AccessPolicy{
		Capability:   CapCRMCampaigns,
		AllowedRoles: []Role{RoleAdmin, RoleEmployee},
		OnDeny:       DenyRenderLocked,
	}

	denied := Evaluate(&Principal{UserID: 1, Role: RoleDriver}, staffOnly)
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonRoleNotAllowed, denied.Reason)

	allowed := Evaluate(&Principal{UserID: 2, Role: RoleAdmin}, staffOnly)
	assert.True(t, allowed.Allowed)
	assert.Equal(t, ReasonGranted, allowed.Reason)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	policy := AccessPolicy{
		Capability:   CapOrdersView,
		AllowedRoles: []Role{RoleCSR},
	}
	principal := &Principal{UserID: 42, Role: RoleCSR}

	first := Evaluate(principal, policy)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Evaluate(principal, policy))
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("  Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("superuser")
	require.Error(t, err)

	_, err = ParseRole("")
	require.Error(t, err)
}

func TestDefaultPoliciesEveryRoleHasSomeSurface(t *testing.T) {
	table, err := BuildTable(DefaultPolicies())
	require.NoError(t, err)

	for _, role := range AllRoles() {
		assert.NotEmpty(t, table.Visible(role), "role %s has no reachable capability", role)
	}
}

func TestDefaultPoliciesAdminSeesEverything(t *testing.T) {
	table, err := BuildTable(DefaultPolicies())
	require.NoError(t, err)

	assert.Equal(t, table.Capabilities(), table.Visible(RoleAdmin))
}
