package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsBadEntries(t *testing.T) {
	_, err := NewCatalog(map[string][]string{"": {"a"}})
	require.Error(t, err)

	_, err = NewCatalog(map[string][]string{"acme": {""}})
	require.Error(t, err)

	_, err = NewCatalog(map[string][]string{"acme": {"a", "a"}})
	require.Error(t, err)
}

func TestDefaultCatalogOwnership(t *testing.T) {
	catalog := DefaultCatalog()

	assert.Equal(t, []string{"gasmask", "hotmama", "scalati"}, catalog.BrandKeys("grabba"))
	assert.True(t, catalog.HasBrand("grabba", "hotmama"))
	assert.False(t, catalog.HasBrand("northwind", "hotmama"))
	assert.False(t, catalog.HasBrand("unknown", "hotmama"))
	assert.Empty(t, catalog.BrandKeys("unknown"))
}

func TestBrandKeysReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	keys := catalog.BrandKeys("grabba")
	keys[0] = "mutated"

	assert.Equal(t, []string{"gasmask", "hotmama", "scalati"}, catalog.BrandKeys("grabba"))
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Meridian Retail", DisplayNameFallback("meridian-retail"))
	assert.Equal(t, "Grabba", DisplayNameFallback("grabba"))
}
