package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/identity"
	"github.com/scopegate/scopegate/internal/shared"
	_ "github.com/scopegate/scopegate/testing"
)

type stubRepo struct {
	users        map[string]*identity.User
	sessions     map[string]*identity.User
	sessionCalls int
	deleted      []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:    make(map[string]*identity.User),
		sessions: make(map[string]*identity.User),
	}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) FindBySession(ctx context.Context, token string) (*identity.User, error) {
	s.sessionCalls++
	user, ok := s.sessions[token]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, token string) error {
	s.deleted = append(s.deleted, token)
	delete(s.sessions, token)
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newService(t *testing.T, repo identity.Repository) *identity.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := identity.NewCache(redisClient, time.Minute)
	return identity.NewService(repo, cache, nil, nil)
}

func TestResolveEmptyTokenFailsClosed(t *testing.T) {
	service := newService(t, newStubRepo())

	_, err := service.Resolve(context.Background(), "")
	if !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveUnknownTokenFailsClosed(t *testing.T) {
	service := newService(t, newStubRepo())

	_, err := service.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveUnknownRoleFailsClosed(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["tok"] = &identity.User{ID: 5, Role: "superuser", IsActive: true}
	service := newService(t, repo)

	_, err := service.Resolve(context.Background(), "tok")
	if !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown role, got %v", err)
	}
}

func TestResolveCachesPrincipal(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["tok"] = &identity.User{ID: 5, Role: "csr", IsActive: true}
	service := newService(t, repo)

	for i := 0; i < 3; i++ {
		principal, err := service.Resolve(context.Background(), "tok")
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if principal.UserID != 5 || principal.Role != access.RoleCSR {
			t.Fatalf("unexpected principal %+v", principal)
		}
	}
	if repo.sessionCalls != 1 {
		t.Fatalf("expected a single repository lookup, got %d", repo.sessionCalls)
	}
}

func TestInvalidateUserDropsEverySession(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["tok-a"] = &identity.User{ID: 5, Role: "csr", IsActive: true}
	repo.sessions["tok-b"] = &identity.User{ID: 5, Role: "csr", IsActive: true}
	service := newService(t, repo)

	for _, token := range []string{"tok-a", "tok-b"} {
		if _, err := service.Resolve(context.Background(), token); err != nil {
			t.Fatalf("warm cache %s: %v", token, err)
		}
	}
	if err := service.InvalidateUser(context.Background(), 5); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	// Role changed in the store; the next resolve must see the new value.
	repo.sessions["tok-a"].Role = "warehouse"
	principal, err := service.Resolve(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if principal.Role != access.RoleWarehouse {
		t.Fatalf("expected refreshed role, got %s", principal.Role)
	}
	if repo.sessionCalls != 3 {
		t.Fatalf("expected cache misses after invalidation, got %d lookups", repo.sessionCalls)
	}
}

func TestRemoveSessionDropsRecordAndCache(t *testing.T) {
	repo := newStubRepo()
	repo.sessions["tok"] = &identity.User{ID: 5, Role: "csr", IsActive: true}
	service := newService(t, repo)

	if _, err := service.Resolve(context.Background(), "tok"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := service.RemoveSession(context.Background(), "tok"); err != nil {
		t.Fatalf("remove session: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "tok" {
		t.Fatalf("expected session record deleted, got %v", repo.deleted)
	}
	if _, err := service.Resolve(context.Background(), "tok"); !errors.Is(err, shared.ErrUnauthenticated) {
		t.Fatalf("expected removed session to stop resolving, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := newStubRepo()
	repo.users["csr@scopegate.local"] = &identity.User{
		ID:           5,
		Email:        "csr@scopegate.local",
		PasswordHash: string(hash),
		Role:         "csr",
		IsActive:     true,
	}
	service := newService(t, repo)

	user, err := service.Authenticate(context.Background(), "csr@scopegate.local", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != 5 {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := service.Authenticate(context.Background(), "csr@scopegate.local", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "ghost@scopegate.local", "hunter22"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	repo.users["csr@scopegate.local"].IsActive = false
	if _, err := service.Authenticate(context.Background(), "csr@scopegate.local", "hunter22"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}
