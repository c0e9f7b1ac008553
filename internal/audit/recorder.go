package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/tenancy"
)

// Event is one row in the scope_events trail: a tenant switch, a brand
// selection, or a denied access decision.
type Event struct {
	ActorID    int64
	Action     string
	Tenant     string
	Brand      string
	Capability string
	Reason     string
	Meta       map[string]any
	At         time.Time
}

// Event actions.
const (
	ActionTenantSwitched = "tenant_switched"
	ActionBrandSelected  = "brand_selected"
	ActionAccessDenied   = "access_denied"
)

// Recorder writes scope events into PostgreSQL.
type Recorder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{pool: pool, logger: logger}
}

// Record persists the event.
func (r *Recorder) Record(ctx context.Context, event Event) error {
	if r == nil || r.pool == nil {
		return errors.New("audit: recorder not initialised")
	}
	if event.Action == "" {
		return errors.New("audit: event requires action")
	}
	metaJSON, err := json.Marshal(event.Meta)
	if err != nil {
		return err
	}
	at := event.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO scope_events (actor_id, action, tenant, brand, capability, reason, meta, occurred_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)`,
		event.ActorID, event.Action, event.Tenant, event.Brand, event.Capability, event.Reason, metaJSON, at)
	return err
}

// RecordDenial satisfies the guard's denial sink.
func (r *Recorder) RecordDenial(req *http.Request, principal *access.Principal, capability string, reason access.Reason) {
	var actorID int64
	if principal != nil {
		actorID = principal.UserID
	}
	event := Event{
		ActorID:    actorID,
		Action:     ActionAccessDenied,
		Capability: capability,
		Reason:     string(reason),
		Meta:       map[string]any{"path": req.URL.Path},
	}
	if err := r.Record(req.Context(), event); err != nil && r.logger != nil {
		r.logger.Warn("audit: record denial", slog.Any("error", err))
	}
}

// ScopeListener adapts the recorder into a scope change subscriber for
// one request's actor.
func (r *Recorder) ScopeListener(ctx context.Context, actorID int64) tenancy.Listener {
	return func(change tenancy.Change) {
		event := Event{
			ActorID: actorID,
			Tenant:  change.Tenant.Slug,
			Brand:   change.Brand.Key,
			Meta: map[string]any{
				"snapshot_version": change.Snapshot.Version,
				"brand_filter":     change.Snapshot.Brands,
			},
		}
		switch change.Kind {
		case tenancy.ChangeTenantSwitched:
			event.Action = ActionTenantSwitched
		case tenancy.ChangeBrandSelected:
			event.Action = ActionBrandSelected
		default:
			return
		}
		if err := r.Record(ctx, event); err != nil && r.logger != nil {
			r.logger.Warn("audit: record scope change", slog.Any("error", err))
		}
	}
}
