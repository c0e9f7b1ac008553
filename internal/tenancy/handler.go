package tenancy

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/scopegate/scopegate/internal/platform/httpx"
	"github.com/scopegate/scopegate/internal/shared"
)

// Handler is the HTTP backend for the business/brand picker.
type Handler struct {
	logger    *slog.Logger
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger, validator: validator.New()}
}

// MountRoutes registers scope routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.current)
	r.Get("/memberships", h.memberships)
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(30, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/tenant", h.switchTenant)
		r.Post("/brand", h.selectBrand)
	})
}

type businessPayload struct {
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
}

type snapshotPayload struct {
	Tenant  string `json:"tenant"`
	Brands  string `json:"brands"`
	Version uint64 `json:"version"`
}

type scopeResponse struct {
	Tenant      businessPayload   `json:"tenant"`
	Brand       string            `json:"brand"`
	BrandFilter []string          `json:"brand_filter"`
	Snapshot    snapshotPayload   `json:"snapshot"`
	Memberships []businessPayload `json:"memberships"`
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	h.respondScope(w, scope)
}

func (h *Handler) memberships(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	memberships := scope.Memberships()
	payload := make([]businessPayload, 0, len(memberships))
	for _, business := range memberships {
		payload = append(payload, businessPayload{Slug: business.Slug, DisplayName: business.DisplayName})
	}
	httpx.JSON(w, http.StatusOK, payload)
}

type switchTenantRequest struct {
	Slug string `json:"slug" validate:"required"`
}

func (h *Handler) switchTenant(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var req switchTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := scope.SwitchTenant(req.Slug); err != nil {
		// Reachable only through tampered or stale client state: the
		// picker lists memberships, it cannot offer a foreign tenant.
		h.logger.Error("scope: tenant switch rejected",
			slog.String("slug", req.Slug),
			slog.Any("error", err),
		)
		httpx.RespondError(w, err)
		return
	}
	h.persist(r, scope)
	h.respondScope(w, scope)
}

type selectBrandRequest struct {
	Key string `json:"key"`
}

func (h *Handler) selectBrand(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	if scope == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var req selectBrandRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	brand := BrandAll
	if req.Key != "" && req.Key != "*" {
		brand = Brand{Key: req.Key, Tenant: scope.Current().Slug}
	}
	// Validation happens here, before anything reaches the scoping
	// adapter.
	if err := scope.SelectBrand(brand); err != nil {
		h.logger.Error("scope: brand selection rejected",
			slog.String("key", req.Key),
			slog.Any("error", err),
		)
		httpx.RespondError(w, err)
		return
	}
	h.persist(r, scope)
	h.respondScope(w, scope)
}

func (h *Handler) persist(r *http.Request, scope *Scope) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return
	}
	sess.SetScope(scope.Current().Slug, scope.CurrentBrand().Key)
}

func (h *Handler) respondScope(w http.ResponseWriter, scope *Scope) {
	filter, err := scope.ResolveBrandFilter()
	if err != nil {
		if errors.Is(err, shared.ErrEmptyBrandEnumeration) {
			h.logger.Error("scope: brand enumeration empty",
				slog.String("tenant", scope.Current().Slug),
			)
		}
		httpx.RespondError(w, err)
		return
	}
	memberships := scope.Memberships()
	members := make([]businessPayload, 0, len(memberships))
	for _, business := range memberships {
		members = append(members, businessPayload{Slug: business.Slug, DisplayName: business.DisplayName})
	}
	snapshot := scope.Snapshot()
	brand := scope.CurrentBrand().Key
	if brand == "" {
		brand = "*"
	}
	httpx.JSON(w, http.StatusOK, scopeResponse{
		Tenant:      businessPayload{Slug: scope.Current().Slug, DisplayName: scope.Current().DisplayName},
		Brand:       brand,
		BrandFilter: filter,
		Snapshot:    snapshotPayload{Tenant: snapshot.Tenant, Brands: snapshot.Brands, Version: snapshot.Version},
		Memberships: members,
	})
}
