package members

import "time"

// Member is one user's membership inside a business, optionally pinned
// to a single brand (ambassadors and store accounts usually are).
type Member struct {
	UserID    int64
	Email     string
	Role      string
	Business  string
	BrandKey  string
	IsPrimary bool
	JoinedAt  time.Time
}
