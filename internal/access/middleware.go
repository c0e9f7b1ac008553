package access

import (
	"log/slog"
	"net/http"

	"github.com/scopegate/scopegate/internal/platform/httpx"
)

// DecisionRecorder receives every guard outcome for metrics.
type DecisionRecorder interface {
	RecordDecision(capability string, allowed bool, reason string)
}

// DenialSink receives denied decisions for the audit trail.
type DenialSink interface {
	RecordDenial(r *http.Request, principal *Principal, capability string, reason Reason)
}

// Middleware applies the policy table to protected routes.
type Middleware struct {
	Table       *Table
	Logger      *slog.Logger
	SignInPath  string
	NeutralPath string
	Recorder    DecisionRecorder
	Denials     DenialSink
}

// Require guards every request behind the given route ID's policy. The
// decision is made per request so a role change takes effect as soon as
// the principal cache drops the stale entry.
func (m Middleware) Require(routeID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy, ok := m.Table.Lookup(routeID)
			if !ok {
				// A route mounted without a policy row is a deploy
				// defect. Fail closed rather than defaulting open.
				if m.Logger != nil {
					m.Logger.Error("guard: no policy registered", slog.String("route", routeID))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}

			principal := PrincipalFromContext(r.Context())
			decision := Evaluate(principal, policy)
			if m.Recorder != nil {
				m.Recorder.RecordDecision(policy.Capability, decision.Allowed, string(decision.Reason))
			}
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			if m.Denials != nil {
				m.Denials.RecordDenial(r, principal, policy.Capability, decision.Reason)
			}

			if decision.Reason == ReasonNoSession {
				http.Redirect(w, r, m.signInPath(), http.StatusSeeOther)
				return
			}

			switch policy.OnDeny {
			case DenyRenderLocked:
				httpx.JSON(w, http.StatusForbidden, LockedPayload(policy))
			default:
				http.Redirect(w, r, m.neutralPath(), http.StatusSeeOther)
			}
		})
	}
}

// Locked is the body callers render as the non-functional locked state.
type Locked struct {
	Locked        string   `json:"locked"`
	Capability    string   `json:"capability"`
	RequiredRoles []string `json:"required_roles"`
}

// LockedPayload describes a denied-but-visible surface: the capability
// exists and these roles may reach it.
func LockedPayload(policy AccessPolicy) Locked {
	roles := make([]string, 0, len(policy.AllowedRoles))
	for _, role := range policy.AllowedRoles {
		roles = append(roles, string(role))
	}
	return Locked{Locked: "true", Capability: policy.Capability, RequiredRoles: roles}
}

func (m Middleware) signInPath() string {
	if m.SignInPath != "" {
		return m.SignInPath
	}
	return "/auth/login"
}

func (m Middleware) neutralPath() string {
	if m.NeutralPath != "" {
		return m.NeutralPath
	}
	return "/"
}
