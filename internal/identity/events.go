package identity

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RoleChangeChannel carries user IDs whose role or active flag changed.
// The identity store publishes here; every service instance drops its
// cached principals for that user on receipt.
const RoleChangeChannel = "identity:role-changed"

// PublishRoleChange announces a role change for the user.
func PublishRoleChange(ctx context.Context, client *redis.Client, userID int64) error {
	return client.Publish(ctx, RoleChangeChannel, strconv.FormatInt(userID, 10)).Err()
}

// RoleChangeListener subscribes to role-change events and invalidates
// cached principals.
type RoleChangeListener struct {
	client  *redis.Client
	service *Service
	logger  *slog.Logger
}

// NewRoleChangeListener constructs a listener.
func NewRoleChangeListener(client *redis.Client, service *Service, logger *slog.Logger) *RoleChangeListener {
	return &RoleChangeListener{client: client, service: service, logger: logger}
}

// Run consumes events until context cancellation.
func (l *RoleChangeListener) Run(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, RoleChangeChannel)
	defer func() {
		_ = sub.Close()
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				l.logger.Warn("identity: bad role-change payload", slog.String("payload", msg.Payload))
				continue
			}
			if err := l.service.InvalidateUser(ctx, userID); err != nil {
				l.logger.Error("identity: invalidate user principals",
					slog.Int64("user_id", userID),
					slog.Any("error", err),
				)
				continue
			}
			l.logger.Info("identity: principals invalidated", slog.Int64("user_id", userID))
		}
	}
}
