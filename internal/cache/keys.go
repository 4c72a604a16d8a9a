package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	PostKeyPrefix       = "post:%d"
	MostLikedKeyFmt     = "rankings:most_liked:%d:%d"
	HighestRatedKeyFmt  = "rankings:highest_rated:%d:%d"
	RankingsPattern     = "rankings:*"
	SubscriberCountKey  = "author:%d:subscriber_count"
	NotificationChanFmt = "notifications:user:%d"
)

const (
	UserTTL     = 5 * time.Minute
	PostTTL     = 30 * time.Minute
	RankingsTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// MostLikedKey identifies one page of the most-liked ranking. The page
// bounds are part of the key so every page expires independently.
func MostLikedKey(limit, offset int) string {
	return fmt.Sprintf(MostLikedKeyFmt, limit, offset)
}

// HighestRatedKey identifies one page of the highest-rated ranking.
func HighestRatedKey(limit, offset int) string {
	return fmt.Sprintf(HighestRatedKeyFmt, limit, offset)
}

func SubscriberCount(authorID uint) string {
	return fmt.Sprintf(SubscriberCountKey, authorID)
}

// NotificationChannel is the pub/sub channel for a user's live notifications.
func NotificationChannel(userID uint) string {
	return fmt.Sprintf(NotificationChanFmt, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePattern deletes every key matching pattern. Like the other
// invalidation helpers it swallows failures; a stale entry just lives
// until its TTL.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	InvalidateRankings(ctx)
}

// InvalidateRankings drops every cached ranking page. Pages are keyed by
// limit and offset, so a pattern delete is the only way to catch them all.
func InvalidateRankings(ctx context.Context) {
	InvalidatePattern(ctx, RankingsPattern)
}
