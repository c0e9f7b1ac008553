package members

import (
	"context"

	"github.com/scopegate/scopegate/internal/shared"
	"github.com/scopegate/scopegate/internal/tenancy"
)

// RepositoryPort defines data access methods for memberships.
type RepositoryPort interface {
	ListMembers(ctx context.Context, scoped tenancy.ScopedRequest, limit, offset int) ([]Member, error)
	CountMembers(ctx context.Context, scoped tenancy.ScopedRequest) (int, error)
}

// Service handles membership listing logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of the scoped tenant's members.
func (s *Service) List(ctx context.Context, scoped tenancy.ScopedRequest, page, perPage int) ([]Member, shared.Pagination, error) {
	total, err := s.repo.CountMembers(ctx, scoped)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pagination := shared.NewPagination(page, perPage, total)
	offset := (pagination.Page - 1) * pagination.PerPage
	result, err := s.repo.ListMembers(ctx, scoped, pagination.PerPage, offset)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return result, pagination, nil
}
