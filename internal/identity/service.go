package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"github.com/scopegate/scopegate/internal/access"
	"github.com/scopegate/scopegate/internal/shared"
)

// ResolveObserver receives cache outcomes for metrics.
type ResolveObserver interface {
	RecordPrincipalCache(hit bool)
}

// Service wraps identity resolution and credential checks.
type Service struct {
	repo     Repository
	cache    *Cache
	logger   *slog.Logger
	observer ResolveObserver
	group    singleflight.Group
}

// NewService constructs a Service. The cache and observer are optional.
func NewService(repo Repository, cache *Cache, logger *slog.Logger, observer ResolveObserver) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, observer: observer}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Resolve exchanges an opaque session token for a principal. Fails
// closed: every lookup error, expired session, inactive account, or
// unknown role string answers ErrUnauthenticated, never a permissive
// default. Concurrent resolutions of the same token are collapsed.
func (s *Service) Resolve(ctx context.Context, token string) (*access.Principal, error) {
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	if s.cache != nil {
		if principal, ok := s.cache.Get(ctx, token); ok {
			if s.observer != nil {
				s.observer.RecordPrincipalCache(true)
			}
			return principal, nil
		}
	}
	if s.observer != nil {
		s.observer.RecordPrincipalCache(false)
	}

	result, err, _ := s.group.Do(token, func() (any, error) {
		return s.resolveUncached(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	principal := result.(access.Principal)
	return &principal, nil
}

func (s *Service) resolveUncached(ctx context.Context, token string) (access.Principal, error) {
	user, err := s.repo.FindBySession(ctx, token)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("identity: session lookup failed", slog.Any("error", err))
		}
		return access.Principal{}, shared.ErrUnauthenticated
	}
	role, err := access.ParseRole(user.Role)
	if err != nil {
		// An account carrying a role outside the closed enum is a data
		// defect; the session is refused rather than downgraded.
		if s.logger != nil {
			s.logger.Error("identity: account has unknown role",
				slog.Int64("user_id", user.ID),
				slog.String("role", user.Role),
			)
		}
		return access.Principal{}, shared.ErrUnauthenticated
	}
	principal := access.Principal{UserID: user.ID, Role: role}
	if s.cache != nil {
		if err := s.cache.Put(ctx, token, principal); err != nil && s.logger != nil {
			s.logger.Warn("identity: cache principal", slog.Any("error", err))
		}
	}
	return principal, nil
}

// RegisterSession persists the session record backing a token.
func (s *Service) RegisterSession(ctx context.Context, token string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, token, userID, expiresAt, ip, ua)
}

// RemoveSession deletes the session record and its cached principal.
// The cached entry goes last so a failed delete cannot leave a cached
// principal answering for a missing record.
func (s *Service) RemoveSession(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, token); err != nil {
			return fmt.Errorf("identity: invalidate principal: %w", err)
		}
	}
	return nil
}

// InvalidateUser drops every cached principal for the user. Called on
// role-change events pushed from the identity store.
func (s *Service) InvalidateUser(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.InvalidateUser(ctx, userID)
}

// SweepExpiredSessions removes session rows past their expiry.
func (s *Service) SweepExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, before)
}
