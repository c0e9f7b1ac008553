package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scopegate/scopegate/internal/platform/httpx"
)

// Handler exposes navigation visibility over HTTP. The menu a client
// renders and the routes the guard enforces come from the same table,
// so a user never sees a link the guard would deny.
type Handler struct {
	logger *slog.Logger
	table  *Table
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, table *Table) *Handler {
	return &Handler{logger: logger, table: table}
}

// MountRoutes registers navigation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.visible)
}

type navResponse struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

func (h *Handler) visible(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, navResponse{
		Role:         string(principal.Role),
		Capabilities: h.table.Visible(principal.Role),
	})
}
