package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scopegate/scopegate/internal/access"
)

// Cache stores resolved principals in Redis for the session lifetime.
// Entries are dropped on logout and whenever the identity store pushes
// a role change for the user.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a principal cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedPrincipal struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// Get returns the cached principal for a session token, if present.
// Corrupt or unparsable entries are treated as misses.
func (c *Cache) Get(ctx context.Context, token string) (*access.Principal, bool) {
	data, err := c.client.Get(ctx, c.tokenKey(token)).Bytes()
	if err != nil {
		return nil, false
	}
	var stored cachedPrincipal
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, false
	}
	role, err := access.ParseRole(stored.Role)
	if err != nil {
		return nil, false
	}
	return &access.Principal{UserID: stored.UserID, Role: role}, true
}

// Put caches the principal and indexes the token by user so role-change
// events can invalidate every session of that user.
func (c *Cache) Put(ctx context.Context, token string, principal access.Principal) error {
	data, err := json.Marshal(cachedPrincipal{UserID: principal.UserID, Role: string(principal.Role)})
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.tokenKey(token), data, c.ttl)
	pipe.SAdd(ctx, c.userKey(principal.UserID), token)
	pipe.Expire(ctx, c.userKey(principal.UserID), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate drops a single token's cached principal.
func (c *Cache) Invalidate(ctx context.Context, token string) error {
	err := c.client.Del(ctx, c.tokenKey(token)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// InvalidateUser drops every cached principal belonging to the user.
func (c *Cache) InvalidateUser(ctx context.Context, userID int64) error {
	tokens, err := c.client.SMembers(ctx, c.userKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, c.tokenKey(token))
	}
	keys = append(keys, c.userKey(userID))
	if err := c.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func (c *Cache) tokenKey(token string) string {
	return "principal:" + token
}

func (c *Cache) userKey(userID int64) string {
	return "principal:user:" + strconv.FormatInt(userID, 10)
}
