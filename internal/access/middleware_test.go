package access_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scopegate/scopegate/internal/access"
	_ "github.com/scopegate/scopegate/testing"
)

type recordedDecision struct {
	capability string
	allowed    bool
	reason     string
}

type stubRecorder struct {
	decisions []recordedDecision
}

func (s *stubRecorder) RecordDecision(capability string, allowed bool, reason string) {
	s.decisions = append(s.decisions, recordedDecision{capability, allowed, reason})
}

type stubSink struct {
	denials []string
}

func (s *stubSink) RecordDenial(r *http.Request, principal *access.Principal, capability string, reason access.Reason) {
	s.denials = append(s.denials, capability+"/"+string(reason))
}

func newGuard(t *testing.T) (access.Middleware, *stubRecorder, *stubSink) {
	t.Helper()
	table, err := access.BuildTable(access.DefaultPolicies())
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	recorder := &stubRecorder{}
	sink := &stubSink{}
	return access.Middleware{Table: table, Recorder: recorder, Denials: sink}, recorder, sink
}

func serveGuarded(t *testing.T, guard access.Middleware, routeID string, principal *access.Principal) *httptest.ResponseRecorder {
	t.Helper()
	var reached bool
	handler := guard.Require(routeID)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if principal != nil {
		req = req.WithContext(access.ContextWithPrincipal(req.Context(), principal))
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code == http.StatusOK && !reached {
		t.Fatal("handler reported OK without invoking next")
	}
	if res.Code != http.StatusOK && reached {
		t.Fatal("denied request reached the protected handler")
	}
	return res
}

func TestRequireAllowsPermittedRole(t *testing.T) {
	guard, recorder, sink := newGuard(t)

	res := serveGuarded(t, guard, access.CapWarehouseOps, &access.Principal{UserID: 5, Role: access.RoleWarehouse})

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if len(recorder.decisions) != 1 || !recorder.decisions[0].allowed {
		t.Fatalf("expected one allowed decision, got %+v", recorder.decisions)
	}
	if len(sink.denials) != 0 {
		t.Fatalf("allowed request must not hit the denial sink: %v", sink.denials)
	}
}

func TestRequireRedirectsAnonymousToSignIn(t *testing.T) {
	guard, _, _ := newGuard(t)

	res := serveGuarded(t, guard, access.CapDashboard, nil)

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if got := res.Header().Get("Location"); got != "/auth/login" {
		t.Fatalf("expected redirect to sign-in, got %q", got)
	}
}

func TestRequireRendersLockedState(t *testing.T) {
	guard, recorder, sink := newGuard(t)

	res := serveGuarded(t, guard, access.CapWarehouseOps, &access.Principal{UserID: 5, Role: access.RoleDriver})

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	var payload access.Locked
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode locked payload: %v", err)
	}
	if payload.Capability != access.CapWarehouseOps {
		t.Fatalf("unexpected capability %q", payload.Capability)
	}
	if len(payload.RequiredRoles) == 0 {
		t.Fatal("locked payload must name the required roles")
	}
	if len(recorder.decisions) != 1 || recorder.decisions[0].allowed {
		t.Fatalf("expected one denied decision, got %+v", recorder.decisions)
	}
	if len(sink.denials) != 1 {
		t.Fatalf("expected denial recorded, got %v", sink.denials)
	}
}

func TestRequireRedirectsDeniedRoleToNeutralPage(t *testing.T) {
	guard, _, _ := newGuard(t)
	guard.NeutralPath = "/home"

	res := serveGuarded(t, guard, access.CapWholesale, &access.Principal{UserID: 9, Role: access.RoleDriver})

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if got := res.Header().Get("Location"); got != "/home" {
		t.Fatalf("expected neutral redirect, got %q", got)
	}
}

func TestRequireFailsClosedForUnregisteredRoute(t *testing.T) {
	guard, _, _ := newGuard(t)

	res := serveGuarded(t, guard, "route.never.registered", &access.Principal{UserID: 1, Role: access.RoleAdmin})

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unregistered route, got %d", res.Code)
	}
}

func TestRequireResolvesAliases(t *testing.T) {
	guard, _, _ := newGuard(t)

	res := serveGuarded(t, guard, "orders", &access.Principal{UserID: 3, Role: access.RoleStore})
	if res.Code != http.StatusOK {
		t.Fatalf("expected alias to resolve, got %d", res.Code)
	}

	res = serveGuarded(t, guard, "orders", &access.Principal{UserID: 3, Role: access.RoleDriver})
	if res.Code == http.StatusOK {
		t.Fatal("alias must enforce the same policy as the capability")
	}
}
