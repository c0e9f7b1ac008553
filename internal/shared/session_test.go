package shared_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/scopegate/scopegate/internal/shared"
	_ "github.com/scopegate/scopegate/testing"
)

func newManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func roundTrip(t *testing.T, manager *shared.SessionManager, mutate func(*shared.Session)) *shared.Session {
	t.Helper()
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	mutate(sess)

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range res.Result().Cookies() {
		next.AddCookie(cookie)
	}
	reloaded, err := manager.Load(ctx, next)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	return reloaded
}

func TestSessionPersistsScopeSelection(t *testing.T) {
	manager := newManager(t)

	reloaded := roundTrip(t, manager, func(sess *shared.Session) {
		sess.SetUser("42")
		sess.SetScope("grabba", "hotmama")
	})

	if reloaded.User() != "42" {
		t.Fatalf("expected user to survive, got %q", reloaded.User())
	}
	tenant, brand := reloaded.Scope()
	if tenant != "grabba" || brand != "hotmama" {
		t.Fatalf("expected persisted scope, got %q/%q", tenant, brand)
	}
}

func TestSessionClearScope(t *testing.T) {
	manager := newManager(t)

	reloaded := roundTrip(t, manager, func(sess *shared.Session) {
		sess.SetScope("grabba", "hotmama")
		sess.ClearScope()
	})

	tenant, brand := reloaded.Scope()
	if tenant != "" || brand != "" {
		t.Fatalf("expected cleared scope, got %q/%q", tenant, brand)
	}
}

func TestDestroyedSessionDropsCookieAndState(t *testing.T) {
	manager := newManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("42")

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	manager.Destroy(sess)
	destroyRes := httptest.NewRecorder()
	if err := manager.Commit(ctx, destroyRes, req, sess); err != nil {
		t.Fatalf("destroy commit: %v", err)
	}

	var cleared bool
	for _, cookie := range destroyRes.Result().Cookies() {
		if cookie.Name == manager.CookieName() && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected destroy to expire the cookie")
	}
}
