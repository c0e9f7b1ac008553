package members

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scopegate/scopegate/internal/tenancy"
)

// Repository provides PostgreSQL backed membership listings. Every
// query takes a ScopedRequest; tenant and brand identifiers never
// travel as loose positional arguments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMembers returns the members of the scoped tenant. Members pinned
// to a brand appear only when that brand is inside the scope's filter.
func (r *Repository) ListMembers(ctx context.Context, scoped tenancy.ScopedRequest, limit, offset int) ([]Member, error) {
	if scoped.TenantSlug == "" {
		return nil, fmt.Errorf("members: unscoped request")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.email, u.role, b.slug, COALESCE(m.brand_key, ''), m.is_primary, m.joined_at
		FROM business_members m
		JOIN businesses b ON b.id = m.business_id
		JOIN users u ON u.id = m.user_id
		WHERE b.slug = $1
		  AND (m.brand_key IS NULL OR m.brand_key = ANY($2))
		ORDER BY m.joined_at ASC
		LIMIT $3 OFFSET $4`,
		scoped.TenantSlug, scoped.BrandKeys, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.UserID, &member.Email, &member.Role, &member.Business, &member.BrandKey, &member.IsPrimary, &member.JoinedAt); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountMembers returns the member total for the scoped tenant.
func (r *Repository) CountMembers(ctx context.Context, scoped tenancy.ScopedRequest) (int, error) {
	if scoped.TenantSlug == "" {
		return 0, fmt.Errorf("members: unscoped request")
	}
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM business_members m
		JOIN businesses b ON b.id = m.business_id
		WHERE b.slug = $1
		  AND (m.brand_key IS NULL OR m.brand_key = ANY($2))`,
		scoped.TenantSlug, scoped.BrandKeys).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
