package tenancy

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed membership lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMemberships returns the businesses the user belongs to, primary
// membership first.
func (r *Repository) ListMemberships(ctx context.Context, userID int64) ([]Business, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.slug, b.display_name
		FROM business_members m
		JOIN businesses b ON b.id = m.business_id
		WHERE m.user_id = $1
		ORDER BY m.is_primary DESC, m.joined_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var memberships []Business
	for rows.Next() {
		var business Business
		if err := rows.Scan(&business.Slug, &business.DisplayName); err != nil {
			return nil, err
		}
		if business.DisplayName == "" {
			business.DisplayName = DisplayNameFallback(business.Slug)
		}
		memberships = append(memberships, business)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}
