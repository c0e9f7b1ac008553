package tenancy

import "strings"

// Business identifies an isolated data space (one tenant).
type Business struct {
	Slug        string
	DisplayName string
}

// Brand is a named partition within a single tenant's data. The zero
// Key marks the all-brands sentinel; it is never a storage key.
type Brand struct {
	Key    string
	Tenant string
}

// BrandAll selects every brand owned by the active tenant.
var BrandAll = Brand{}

// IsAll reports whether the brand is the all-brands sentinel.
func (b Brand) IsAll() bool {
	return b.Key == ""
}

// Snapshot is the (tenant, brand-filter) pair a data request was issued
// under. Comparable with ==; callers compare the snapshot a fetch was
// tagged with against the current one and discard stale results.
type Snapshot struct {
	Tenant  string
	Brands  string
	Version uint64
}

// Equal reports whether two snapshots describe the same scope epoch.
func (s Snapshot) Equal(other Snapshot) bool {
	return s == other
}

// BrandKeys expands the snapshot's brand filter back into a list.
func (s Snapshot) BrandKeys() []string {
	if s.Brands == "" {
		return nil
	}
	return strings.Split(s.Brands, ",")
}

// Operation classifies a logical data request.
type Operation string

const (
	// OpRead marks a read request.
	OpRead Operation = "read"
	// OpWrite marks a write request.
	OpWrite Operation = "write"
)

// Request is a logical data operation before scoping.
type Request struct {
	Op         Operation
	Collection string
}

// ScopedRequest is the only shape the data layer accepts. Tenant and
// brand identifiers travel inside it, never as positional arguments, so
// a call site cannot forget to scope a query.
type ScopedRequest struct {
	Request
	TenantSlug string
	BrandKeys  []string
	Snapshot   Snapshot
}
