// Package notifications implements notification creation and the
// fan-out that runs when a post is published.
package notifications

import (
	"context"
	"encoding/json"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Notifier pushes live notification events over Redis pub/sub so
// connected clients see new notifications without polling. Delivery is
// best-effort; the persisted Notification row is the source of truth.
type Notifier struct {
	client *redis.Client
}

// NewNotifier wraps the given Redis client. A nil client disables
// live delivery without affecting persistence.
func NewNotifier(client *redis.Client) *Notifier {
	return &Notifier{client: client}
}

type notificationEvent struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

// PublishUser emits one event on the user's notification channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, message string) {
	if n == nil || n.client == nil {
		return
	}
	payload, err := json.Marshal(notificationEvent{UserID: userID, Message: message})
	if err != nil {
		return
	}
	if err := n.client.Publish(ctx, cache.NotificationChannel(userID), payload).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			"user_id", userID,
			"error", err.Error(),
		)
	}
}
