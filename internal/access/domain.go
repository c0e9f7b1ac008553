package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a principal can carry. Unknown role
// strings fail ParseRole instead of falling through to a deny at
// evaluation time.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
	RoleDriver     Role = "driver"
	RoleCSR        Role = "csr"
	RoleWarehouse  Role = "warehouse"
	RoleAccountant Role = "accountant"
	RoleAmbassador Role = "ambassador"
	RoleWholesaler Role = "wholesaler"
	RoleCustomer   Role = "customer"
	RoleStore      Role = "store"
)

// AllRoles lists every registered role.
func AllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleEmployee,
		RoleDriver,
		RoleCSR,
		RoleWarehouse,
		RoleAccountant,
		RoleAmbassador,
		RoleWholesaler,
		RoleCustomer,
		RoleStore,
	}
}

// ParseRole converts a stored role string into a Role.
func ParseRole(value string) (Role, error) {
	candidate := Role(strings.TrimSpace(strings.ToLower(value)))
	for _, role := range AllRoles() {
		if role == candidate {
			return role, nil
		}
	}
	return "", fmt.Errorf("access: unknown role %q", value)
}

// Principal is the resolved identity for the current session.
type Principal struct {
	UserID int64
	Role   Role
}

// DenyBehavior tells the caller what to do with a denied decision.
type DenyBehavior int

const (
	// DenyRedirect sends the actor to a neutral landing page.
	DenyRedirect DenyBehavior = iota
	// DenyRenderLocked renders the surface in a non-functional locked
	// state so the actor can see it exists and who to ask.
	DenyRenderLocked
)

// String returns the wire representation of the behavior.
func (d DenyBehavior) String() string {
	if d == DenyRenderLocked {
		return "locked"
	}
	return "redirect"
}

// AccessPolicy is one row of the policy table: which roles may reach a
// capability and how callers should treat a denial.
type AccessPolicy struct {
	Capability   string
	AllowedRoles []Role
	OnDeny       DenyBehavior
}

// Allows reports whether the role is in the policy's allowed set.
func (p AccessPolicy) Allows(role Role) bool {
	for _, allowed := range p.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Reason explains a Decision.
type Reason string

const (
	// ReasonGranted marks an allowed decision.
	ReasonGranted Reason = "granted"
	// ReasonNoSession marks a denial due to a missing session. Checked
	// before any role evaluation.
	ReasonNoSession Reason = "no_session"
	// ReasonRoleNotAllowed marks a denial due to role membership.
	ReasonRoleNotAllowed Reason = "role_not_allowed"
)

// Decision is the derived outcome of evaluating a principal against a
// policy. Never persisted.
type Decision struct {
	Allowed bool
	Reason  Reason
}
