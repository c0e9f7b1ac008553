package access

// Capability names for every protected surface. One row per logical
// capability; paths that historically pointed at the same screen are
// registered as aliases so the role sets cannot drift apart.
const (
	CapDashboard      = "dashboard.view"
	CapOrdersView     = "orders.view"
	CapOrdersManage   = "orders.manage"
	CapInvoicesView   = "invoices.view"
	CapInvoicesManage = "invoices.manage"
	CapStoresView     = "stores.view"
	CapStoresManage   = "stores.manage"
	CapMissionsView   = "missions.view"
	CapMissionsManage = "missions.manage"
	CapDeliveryBoard  = "delivery.board"
	CapWarehouseOps   = "warehouse.ops"
	CapCRMContacts    = "crm.contacts"
	CapCRMCampaigns   = "crm.campaigns"
	CapLedgerView     = "ledger.view"
	CapLedgerClose    = "ledger.close"
	CapWholesale      = "wholesale.portal"
	CapAmbassador     = "ambassador.portal"
	CapStorePortal    = "store.portal"
	CapMembersAdmin   = "members.admin"
	CapScopeAudit     = "scope.audit"
	CapSettings       = "settings.manage"
)

// DefaultPolicies declares the route policy table. Loaded once at
// process start; changing a row ships with a deploy.
func DefaultPolicies() []PolicyDef {
	staff := []Role{RoleAdmin, RoleEmployee}
	return []PolicyDef{
		{
			Capability:   CapDashboard,
			RouteAliases: []string{"home", "overview"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleCSR, RoleAccountant, RoleWarehouse},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapOrdersView,
			RouteAliases: []string{"orders", "orders.list"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleCSR, RoleWholesaler, RoleStore},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapOrdersManage,
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleCSR},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapInvoicesView,
			RouteAliases: []string{"invoices", "billing.invoices"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleAccountant, RoleWholesaler},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapInvoicesManage,
			AllowedRoles: []Role{RoleAdmin, RoleAccountant},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapStoresView,
			RouteAliases: []string{"stores", "retail.stores"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleCSR, RoleAmbassador},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapStoresManage,
			AllowedRoles: staff,
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapMissionsView,
			RouteAliases: []string{"missions"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleAmbassador, RoleDriver},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapMissionsManage,
			AllowedRoles: staff,
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapDeliveryBoard,
			RouteAliases: []string{"delivery", "logistics.board"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleDriver, RoleWarehouse},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapWarehouseOps,
			RouteAliases: []string{"warehouse"},
			AllowedRoles: []Role{RoleAdmin, RoleWarehouse},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapCRMContacts,
			RouteAliases: []string{"crm", "crm.customers"},
			AllowedRoles: []Role{RoleAdmin, RoleEmployee, RoleCSR},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapCRMCampaigns,
			AllowedRoles: staff,
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapLedgerView,
			RouteAliases: []string{"finance.ledger"},
			AllowedRoles: []Role{RoleAdmin, RoleAccountant},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapLedgerClose,
			AllowedRoles: []Role{RoleAdmin, RoleAccountant},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapWholesale,
			RouteAliases: []string{"wholesale"},
			AllowedRoles: []Role{RoleAdmin, RoleWholesaler},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapAmbassador,
			RouteAliases: []string{"ambassador"},
			AllowedRoles: []Role{RoleAdmin, RoleAmbassador},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapStorePortal,
			RouteAliases: []string{"store"},
			AllowedRoles: []Role{RoleAdmin, RoleStore},
			OnDeny:       DenyRedirect,
		},
		{
			Capability:   CapMembersAdmin,
			RouteAliases: []string{"admin.users", "admin.members"},
			AllowedRoles: []Role{RoleAdmin},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapScopeAudit,
			AllowedRoles: []Role{RoleAdmin},
			OnDeny:       DenyRenderLocked,
		},
		{
			Capability:   CapSettings,
			RouteAliases: []string{"settings"},
			AllowedRoles: []Role{RoleAdmin},
			OnDeny:       DenyRenderLocked,
		},
	}
}
