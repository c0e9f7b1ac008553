package audit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/platform/httpx"
)

// TimelineRow is one event in the read-side timeline.
type TimelineRow struct {
	At         time.Time `json:"at"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	Tenant     string    `json:"tenant,omitempty"`
	Brand      string    `json:"brand,omitempty"`
	Capability string    `json:"capability,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// Handler exposes the scope event timeline.
type Handler struct {
	logger *slog.Logger
	pool   *pgxpool.Pool
	guard  access.Middleware
}

// NewHandler constructs a timeline handler.
func NewHandler(logger *slog.Logger, pool *pgxpool.Pool, guard access.Middleware) *Handler {
	return &Handler{logger: logger, pool: pool, guard: guard}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(access.CapScopeAudit))
		r.Get("/", h.timeline)
	})
}

type timelineResponse struct {
	Rows    []TimelineRow `json:"rows"`
	Page    int           `json:"page"`
	HasNext bool          `json:"has_next"`
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize := 20
	rows, err := h.query(r.Context(), r.URL.Query().Get("action"), pageSize+1, (page-1)*pageSize)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	httpx.JSON(w, http.StatusOK, timelineResponse{Rows: rows, Page: page, HasNext: hasNext})
}

func (h *Handler) query(ctx context.Context, action string, limit, offset int) ([]TimelineRow, error) {
	rows, err := h.pool.Query(ctx, `
		SELECT occurred_at, actor_id, action,
		       COALESCE(tenant, ''), COALESCE(brand, ''), COALESCE(capability, ''), COALESCE(reason, '')
		FROM scope_events
		WHERE ($1 = '' OR action = $1)
		ORDER BY occurred_at DESC
		LIMIT $2 OFFSET $3`, action, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []TimelineRow
	for rows.Next() {
		var row TimelineRow
		if err := rows.Scan(&row.At, &row.ActorID, &row.Action, &row.Tenant, &row.Brand, &row.Capability, &row.Reason); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
