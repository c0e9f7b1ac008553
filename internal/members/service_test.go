package members

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopegate/scopegate/internal/tenancy"
)

type stubRepo struct {
	members  []Member
	lastList tenancy.ScopedRequest
}

func (s *stubRepo) ListMembers(ctx context.Context, scoped tenancy.ScopedRequest, limit, offset int) ([]Member, error) {
	s.lastList = scoped
	if offset >= len(s.members) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.members) {
		end = len(s.members)
	}
	return s.members[offset:end], nil
}

func (s *stubRepo) CountMembers(ctx context.Context, scoped tenancy.ScopedRequest) (int, error) {
	return len(s.members), nil
}

func TestListPassesScopedRequestThrough(t *testing.T) {
	repo := &stubRepo{members: []Member{
		{UserID: 1, Email: "a@scopegate.local", Business: "grabba", JoinedAt: time.Now()},
		{UserID: 2, Email: "b@scopegate.local", Business: "grabba", JoinedAt: time.Now()},
	}}
	service := NewService(repo)

	scoped := tenancy.ScopedRequest{
		Request:    tenancy.Request{Op: tenancy.OpRead, Collection: "business_members"},
		TenantSlug: "grabba",
		BrandKeys:  []string{"gasmask", "hotmama", "scalati"},
	}
	result, pagination, err := service.List(context.Background(), scoped, 1, 10)
	require.NoError(t, err)

	assert.Len(t, result, 2)
	assert.Equal(t, 2, pagination.Total)
	assert.Equal(t, "grabba", repo.lastList.TenantSlug)
	assert.Equal(t, []string{"gasmask", "hotmama", "scalati"}, repo.lastList.BrandKeys)
}

func TestRepositoryRejectsUnscopedRequest(t *testing.T) {
	repo := &Repository{}

	_, err := repo.ListMembers(context.Background(), tenancy.ScopedRequest{}, 10, 0)
	require.Error(t, err)

	_, err = repo.CountMembers(context.Background(), tenancy.ScopedRequest{})
	require.Error(t, err)
}
