package notifications

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// dispatchTimeout bounds one background fan-out run.
const dispatchTimeout = 30 * time.Second

// Fanout delivers one notification per subscriber when a post leaves
// the draft state. Author followers and category followers are merged
// and deduplicated; the author never receives their own notification.
type Fanout struct {
	subRepo   repository.SubscriptionRepository
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	notifier  *Notifier
}

// NewFanout builds a Fanout. notifier may be nil to skip live delivery.
func NewFanout(
	subRepo repository.SubscriptionRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	notifier *Notifier,
) *Fanout {
	return &Fanout{
		subRepo:   subRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// PostPublished creates one notification row per recipient and returns
// how many were written. It is called exactly once per post, guarded
// by the draft-to-published transition upstream.
func (f *Fanout) PostPublished(ctx context.Context, post *models.Post) (int, error) {
	span, ctx := observability.NewSpan(ctx, "notifications.fanout")
	defer span.End()
	span.AddAttributes(
		attribute.Int("post.id", int(post.ID)),
		attribute.Int("author.id", int(post.AuthorID)),
	)

	author, err := f.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		span.SetError(err)
		return 0, err
	}

	recipientIDs, err := f.recipients(ctx, post)
	if err != nil {
		span.SetError(err)
		return 0, err
	}
	if len(recipientIDs) == 0 {
		return 0, nil
	}

	message := fmt.Sprintf("New post published by %s: %s.", author.DisplayName(), post.Title)
	batch := make([]models.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		batch = append(batch, models.Notification{UserID: id, Message: message})
	}

	if err := f.notifRepo.CreateBatch(ctx, batch); err != nil {
		middleware.FanoutNotifications.WithLabelValues("failed").Add(float64(len(batch)))
		span.SetError(err)
		return 0, err
	}
	middleware.FanoutNotifications.WithLabelValues("delivered").Add(float64(len(batch)))

	for _, id := range recipientIDs {
		f.notifier.PublishUser(ctx, id, message)
	}

	span.AddAttributes(attribute.Int("recipients", len(recipientIDs)))
	return len(recipientIDs), nil
}

// recipients merges author followers with category followers,
// deduplicated and with the author removed.
func (f *Fanout) recipients(ctx context.Context, post *models.Post) ([]uint, error) {
	ids, err := f.subRepo.SubscriberIDs(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	if post.CategoryID != nil {
		categoryIDs, err := f.subRepo.CategorySubscriberIDs(ctx, *post.CategoryID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, categoryIDs...)
	}

	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == post.AuthorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// Dispatch runs PostPublished on a background goroutine with its own
// deadline. Failures are logged and counted, never surfaced to the
// publish request.
func (f *Fanout) Dispatch(post *models.Post) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if _, err := f.PostPublished(ctx, post); err != nil {
			middleware.Logger.ErrorContext(ctx, "post fan-out failed",
				"post_id", post.ID,
				"author_id", post.AuthorID,
				"error", err.Error(),
			)
		}
	}()
}
