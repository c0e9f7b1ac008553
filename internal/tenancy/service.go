package tenancy

import (
	"context"
	"log/slog"
)

// MembershipSource abstracts the membership lookup for tests.
type MembershipSource interface {
	ListMemberships(ctx context.Context, userID int64) ([]Business, error)
}

// Service builds per-session scopes from the membership directory and
// the static brand catalog.
type Service struct {
	memberships MembershipSource
	catalog     *Catalog
	logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(memberships MembershipSource, catalog *Catalog, logger *slog.Logger) *Service {
	return &Service{memberships: memberships, catalog: catalog, logger: logger}
}

// Catalog exposes the static brand enumeration.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// BuildScope creates the scope for a principal, replaying the persisted
// tenant/brand selection when it still validates. A selection that no
// longer validates (revoked membership, reshipped catalog) is dropped
// loudly and the scope falls back to the default; restored reports
// whether the persisted selection survived.
func (s *Service) BuildScope(ctx context.Context, userID int64, persistedTenant, persistedBrand string) (scope *Scope, restored bool, err error) {
	memberships, err := s.memberships.ListMemberships(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	scope, err = NewScope(s.catalog, memberships)
	if err != nil {
		return nil, false, err
	}
	if persistedTenant == "" {
		return scope, true, nil
	}
	if err := scope.Restore(persistedTenant, persistedBrand); err != nil {
		if s.logger != nil {
			s.logger.Error("tenancy: persisted scope rejected",
				slog.Int64("user_id", userID),
				slog.String("tenant", persistedTenant),
				slog.String("brand", persistedBrand),
				slog.Any("error", err),
			)
		}
		return scope, false, nil
	}
	return scope, true, nil
}
