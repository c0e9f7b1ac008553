package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/audit"
	"github.com/scopegate/scopegate/internal/identity"
	"github.com/scopegate/scopegate/internal/members"
	"github.com/scopegate/scopegate/internal/observability"
	"github.com/scopegate/scopegate/internal/shared"
	"github.com/scopegate/scopegate/internal/tenancy"
	"github.com/scopegate/scopegate/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	IdentityService *identity.Service
	TenancyService  *tenancy.Service
	AuditRecorder   *audit.Recorder

	Guard          access.Middleware
	AuthHandler    *identity.Handler
	ScopeHandler   *tenancy.Handler
	NavHandler     *access.Handler
	MembersHandler *members.Handler
	AuditHandler   *audit.Handler
	JobsHandler    *jobs.Handler
}

// NewRouter constructs the chi.Router with ScopeGate defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
		Identity:       params.IdentityService,
		Tenancy:        params.TenancyService,
		Audit:          params.AuditRecorder,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/scope", params.ScopeHandler.MountRoutes)
	r.Route("/nav", params.NavHandler.MountRoutes)
	if params.MembersHandler != nil {
		r.Route("/members", params.MembersHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
