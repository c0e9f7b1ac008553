package members

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/platform/httpx"
	"github.com/scopegate/scopegate/internal/shared"
	"github.com/scopegate/scopegate/internal/tenancy"
)

// Handler manages membership admin endpoints. The listing is a
// protected surface: the guard gates it and every query goes through
// the scoping adapter at request time.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   access.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard access.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers membership routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(access.CapMembersAdmin))
		r.Get("/", h.list)
	})
}

type memberPayload struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Business  string    `json:"business"`
	BrandKey  string    `json:"brand_key,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	JoinedAt  time.Time `json:"joined_at"`
}

type listResponse struct {
	Members    []memberPayload   `json:"members"`
	Pagination shared.Pagination `json:"pagination"`
	Snapshot   tenancy.Snapshot  `json:"snapshot"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope := tenancy.ScopeFromContext(r.Context())
	if scope == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	// Scope is read here, at query time, not when the client opened
	// the screen.
	scoped, err := scope.ScopeRequest(tenancy.Request{Op: tenancy.OpRead, Collection: "business_members"})
	if err != nil {
		h.logger.Error("members: scope request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	result, pagination, err := h.service.List(r.Context(), scoped, page, perPage)
	if err != nil {
		h.logger.Error("members: list", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	payload := make([]memberPayload, 0, len(result))
	for _, member := range result {
		payload = append(payload, memberPayload{
			UserID:    member.UserID,
			Email:     member.Email,
			Role:      member.Role,
			Business:  member.Business,
			BrandKey:  member.BrandKey,
			IsPrimary: member.IsPrimary,
			JoinedAt:  member.JoinedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, listResponse{Members: payload, Pagination: pagination, Snapshot: scoped.Snapshot})
}
