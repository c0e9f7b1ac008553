package access

import (
	"fmt"
	"sort"
)

// Table is the immutable route-policy mapping. Built once at startup
// via BuildTable; lookups are read-only thereafter.
type Table struct {
	policies map[string]AccessPolicy
	aliases  map[string]string
}

// PolicyDef declares one capability row plus the route IDs that resolve
// to it. The capability name itself is always a valid route ID.
type PolicyDef struct {
	Capability   string
	RouteAliases []string
	AllowedRoles []Role
	OnDeny       DenyBehavior
}

// BuildTable validates and indexes the declared policies. An empty
// allowed-role set, a duplicate capability or alias, or an unknown role
// is a configuration error and fails the build.
func BuildTable(defs []PolicyDef) (*Table, error) {
	t := &Table{
		policies: make(map[string]AccessPolicy, len(defs)),
		aliases:  make(map[string]string),
	}
	for _, def := range defs {
		if def.Capability == "" {
			return nil, fmt.Errorf("access: policy with empty capability")
		}
		if _, exists := t.policies[def.Capability]; exists {
			return nil, fmt.Errorf("access: duplicate capability %q", def.Capability)
		}
		if len(def.AllowedRoles) == 0 {
			return nil, fmt.Errorf("access: capability %q has no allowed roles", def.Capability)
		}
		seen := make(map[Role]struct{}, len(def.AllowedRoles))
		for _, role := range def.AllowedRoles {
			if _, err := ParseRole(string(role)); err != nil {
				return nil, fmt.Errorf("access: capability %q: %w", def.Capability, err)
			}
			if _, dup := seen[role]; dup {
				return nil, fmt.Errorf("access: capability %q repeats role %q", def.Capability, role)
			}
			seen[role] = struct{}{}
		}
		t.policies[def.Capability] = AccessPolicy{
			Capability:   def.Capability,
			AllowedRoles: append([]Role(nil), def.AllowedRoles...),
			OnDeny:       def.OnDeny,
		}
		for _, alias := range def.RouteAliases {
			if alias == "" {
				return nil, fmt.Errorf("access: capability %q declares empty alias", def.Capability)
			}
			if _, exists := t.policies[alias]; exists {
				return nil, fmt.Errorf("access: alias %q collides with a capability", alias)
			}
			if owner, exists := t.aliases[alias]; exists {
				return nil, fmt.Errorf("access: alias %q registered for both %q and %q", alias, owner, def.Capability)
			}
			t.aliases[alias] = def.Capability
		}
	}
	return t, nil
}

// Lookup resolves a route ID (a capability name or one of its aliases)
// to its policy row.
func (t *Table) Lookup(routeID string) (AccessPolicy, bool) {
	if policy, ok := t.policies[routeID]; ok {
		return policy, true
	}
	if capability, ok := t.aliases[routeID]; ok {
		return t.policies[capability], true
	}
	return AccessPolicy{}, false
}

// Capabilities returns all registered capability names, sorted.
func (t *Table) Capabilities() []string {
	names := make([]string, 0, len(t.policies))
	for name := range t.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Visible returns the capabilities the role may reach. Navigation menus
// must be derived from this so a user never sees a link to a screen the
// guard would deny.
func (t *Table) Visible(role Role) []string {
	visible := make([]string, 0, len(t.policies))
	for name, policy := range t.policies {
		if policy.Allows(role) {
			visible = append(visible, name)
		}
	}
	sort.Strings(visible)
	return visible
}
