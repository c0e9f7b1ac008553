package tenancy

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Catalog is the static per-tenant brand enumeration. It is process
// configuration, not a live query: the set of brands a tenant owns
// changes with a deploy.
type Catalog struct {
	brands map[string][]string
}

// NewCatalog validates and indexes the tenant→brands configuration.
func NewCatalog(entries map[string][]string) (*Catalog, error) {
	brands := make(map[string][]string, len(entries))
	for tenant, keys := range entries {
		tenant = strings.TrimSpace(tenant)
		if tenant == "" {
			return nil, fmt.Errorf("tenancy: catalog entry with empty tenant slug")
		}
		seen := make(map[string]struct{}, len(keys))
		owned := make([]string, 0, len(keys))
		for _, key := range keys {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("tenancy: tenant %q declares empty brand key", tenant)
			}
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("tenancy: tenant %q repeats brand %q", tenant, key)
			}
			seen[key] = struct{}{}
			owned = append(owned, key)
		}
		brands[tenant] = owned
	}
	return &Catalog{brands: brands}, nil
}

// BrandKeys returns a copy of the brand keys owned by the tenant.
func (c *Catalog) BrandKeys(tenant string) []string {
	keys := c.brands[tenant]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// HasBrand reports whether the tenant owns the brand key.
func (c *Catalog) HasBrand(tenant, key string) bool {
	for _, owned := range c.brands[tenant] {
		if owned == key {
			return true
		}
	}
	return false
}

// DefaultCatalog declares the shipped tenant brand configuration.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(map[string][]string{
		"grabba":    {"gasmask", "hotmama", "scalati"},
		"northwind": {"northwind"},
		"meridian":  {"meridian-retail", "meridian-direct"},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

var titleCaser = cases.Title(language.English)

// DisplayNameFallback derives a presentable name from a slug when the
// directory record carries none.
func DisplayNameFallback(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
