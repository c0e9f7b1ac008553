package tenancy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/scopegate/scopegate/internal/shared"
)

// ChangeKind labels a scope change notification.
type ChangeKind string

const (
	// ChangeTenantSwitched marks an explicit tenant switch.
	ChangeTenantSwitched ChangeKind = "tenant_switched"
	// ChangeBrandSelected marks a brand selection under the active tenant.
	ChangeBrandSelected ChangeKind = "brand_selected"
)

// Change describes a committed scope mutation.
type Change struct {
	Kind     ChangeKind
	Tenant   Business
	Brand    Brand
	Snapshot Snapshot
}

// Listener receives scope change notifications. The engine pushes the
// change signal only; subscribers re-fetch their own data.
type Listener func(Change)

// Scope holds the session's active tenant and brand selection. It is
// the only mutable shared state in the engine: all writes go through
// SwitchTenant and SelectBrand, which validate before committing under
// a single lock hold.
type Scope struct {
	mu          sync.Mutex
	catalog     *Catalog
	memberships []Business
	tenant      Business
	brand       Brand
	version     uint64
	listeners   map[int]Listener
	nextID      int
}

// NewScope builds a scope defaulting to the principal's first
// membership with the all-brands selection. At least one membership is
// required; a session without one has no data space to operate in.
func NewScope(catalog *Catalog, memberships []Business) (*Scope, error) {
	if catalog == nil {
		return nil, fmt.Errorf("tenancy: catalog required")
	}
	if len(memberships) == 0 {
		return nil, fmt.Errorf("tenancy: %w: no business memberships", shared.ErrForbidden)
	}
	owned := make([]Business, len(memberships))
	copy(owned, memberships)
	return &Scope{
		catalog:     catalog,
		memberships: owned,
		tenant:      owned[0],
		brand:       BrandAll,
		listeners:   make(map[int]Listener),
	}, nil
}

// Current returns the active business. Never empty once the scope
// exists.
func (s *Scope) Current() Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenant
}

// CurrentBrand returns the active brand selection, BrandAll included.
func (s *Scope) CurrentBrand() Brand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brand
}

// Memberships returns the businesses the principal belongs to.
func (s *Scope) Memberships() []Business {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Business, len(s.memberships))
	copy(out, s.memberships)
	return out
}

// SwitchTenant activates the given business. The brand selection resets
// to BrandAll for the new tenant: a brand key valid in the previous
// tenant must never be reused against the next one.
func (s *Scope) SwitchTenant(slug string) error {
	s.mu.Lock()
	target, ok := s.membership(slug)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tenancy: %w: %q", shared.ErrNotAMember, slug)
	}
	s.tenant = target
	s.brand = BrandAll
	s.version++
	change := Change{Kind: ChangeTenantSwitched, Tenant: s.tenant, Brand: s.brand, Snapshot: s.snapshotLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(change)
	}
	return nil
}

// SelectBrand activates a brand under the current tenant. The brand
// must name the active tenant as its parent and appear in the tenant's
// catalog enumeration.
func (s *Scope) SelectBrand(brand Brand) error {
	s.mu.Lock()
	if !brand.IsAll() {
		if brand.Tenant != s.tenant.Slug {
			s.mu.Unlock()
			return fmt.Errorf("tenancy: %w: brand %q belongs to %q, active tenant is %q",
				shared.ErrCrossTenantBrand, brand.Key, brand.Tenant, s.tenant.Slug)
		}
		if !s.catalog.HasBrand(s.tenant.Slug, brand.Key) {
			s.mu.Unlock()
			return fmt.Errorf("tenancy: %w: tenant %q does not own brand %q",
				shared.ErrCrossTenantBrand, s.tenant.Slug, brand.Key)
		}
	}
	s.brand = brand
	s.version++
	change := Change{Kind: ChangeBrandSelected, Tenant: s.tenant, Brand: s.brand, Snapshot: s.snapshotLocked()}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(change)
	}
	return nil
}

// Restore replays a persisted selection, validating it the same way the
// switch operations do. Used when rebuilding a scope from session
// state.
func (s *Scope) Restore(tenantSlug, brandKey string) error {
	if tenantSlug == "" {
		return nil
	}
	s.mu.Lock()
	target, ok := s.membership(tenantSlug)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("tenancy: %w: %q", shared.ErrNotAMember, tenantSlug)
	}
	if brandKey != "" && !s.catalog.HasBrand(tenantSlug, brandKey) {
		s.mu.Unlock()
		return fmt.Errorf("tenancy: %w: tenant %q does not own brand %q",
			shared.ErrCrossTenantBrand, tenantSlug, brandKey)
	}
	s.tenant = target
	if brandKey == "" {
		s.brand = BrandAll
	} else {
		s.brand = Brand{Key: brandKey, Tenant: tenantSlug}
	}
	s.mu.Unlock()
	return nil
}

// ResolveBrandFilter expands the current selection into the concrete
// brand key list storage filters consume. A tenant resolving BrandAll
// to nothing is a configuration defect, never an empty result.
func (s *Scope) ResolveBrandFilter() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveBrandFilterLocked()
}

// ScopeRequest attaches the current tenant and brand filter to a
// logical request. Scope is read at call time, not at mount time, so a
// switch between building a screen and issuing its queries is always
// observed.
func (s *Scope) ScopeRequest(req Request) (ScopedRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.resolveBrandFilterLocked()
	if err != nil {
		return ScopedRequest{}, err
	}
	return ScopedRequest{
		Request:    req,
		TenantSlug: s.tenant.Slug,
		BrandKeys:  keys,
		Snapshot:   s.snapshotLocked(),
	}, nil
}

// Snapshot returns the current scope epoch for staleness comparison.
func (s *Scope) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a change listener and returns its handle.
func (s *Scope) Subscribe(listener Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[s.nextID] = listener
	return s.nextID
}

// Unsubscribe removes a listener by handle.
func (s *Scope) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

func (s *Scope) membership(slug string) (Business, bool) {
	for _, business := range s.memberships {
		if business.Slug == slug {
			return business, true
		}
	}
	return Business{}, false
}

func (s *Scope) resolveBrandFilterLocked() ([]string, error) {
	if !s.brand.IsAll() {
		return []string{s.brand.Key}, nil
	}
	keys := s.catalog.BrandKeys(s.tenant.Slug)
	if len(keys) == 0 {
		return nil, fmt.Errorf("tenancy: %w: %q", shared.ErrEmptyBrandEnumeration, s.tenant.Slug)
	}
	return keys, nil
}

func (s *Scope) snapshotLocked() Snapshot {
	brands := s.brand.Key
	if s.brand.IsAll() {
		brands = strings.Join(s.catalog.BrandKeys(s.tenant.Slug), ",")
	}
	return Snapshot{Tenant: s.tenant.Slug, Brands: brands, Version: s.version}
}

func (s *Scope) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		out = append(out, listener)
	}
	return out
}
