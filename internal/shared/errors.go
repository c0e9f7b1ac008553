package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates no valid session backs the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid session whose role is not permitted.
	ErrForbidden = errors.New("forbidden")
	// ErrNotAMember indicates a tenant switch to a business the principal
	// does not belong to. Reachable only through malformed or tampered
	// client state; callers surface it loudly instead of coercing scope.
	ErrNotAMember = errors.New("not a member of business")
	// ErrCrossTenantBrand indicates a brand selection whose parent tenant
	// differs from the active tenant. Same propagation policy as
	// ErrNotAMember: a defect, never silently corrected.
	ErrCrossTenantBrand = errors.New("brand does not belong to active tenant")
	// ErrEmptyBrandEnumeration indicates a tenant with no configured
	// brands resolved under the all-brands selection. Distinct from
	// "zero results" and treated as a fatal configuration defect.
	ErrEmptyBrandEnumeration = errors.New("tenant owns no brands")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
