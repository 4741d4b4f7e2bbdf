package notification

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	unreadCachePrefix = "unread:"
	unreadCacheTTL    = 5 * time.Minute
)

func unreadCacheKey(userID string) string {
	return unreadCachePrefix + userID
}

// cachedUnread reads the unread count from Redis. Any cache failure is a
// miss: counting falls back to Mongo.
func (s *DefaultNotificationService) cachedUnread(ctx context.Context, userID string) (int64, bool) {
	if s.Cache == nil {
		return 0, false
	}
	val, err := s.Cache.Get(ctx, unreadCacheKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (s *DefaultNotificationService) storeUnread(ctx context.Context, userID string, count int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, unreadCacheKey(userID), count, unreadCacheTTL).Err(); err != nil {
		s.logger().Debug("failed to cache unread count",
			zap.String("userId", userID), zap.Error(err))
	}
}

// invalidateUnread drops the cached count after any write that changes it.
// Deleting instead of adjusting keeps the cache correct under concurrent
// creates and mark-reads; the next read recounts from Mongo.
func (s *DefaultNotificationService) invalidateUnread(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, unreadCacheKey(userID)).Err(); err != nil {
		s.logger().Debug("failed to invalidate unread count cache",
			zap.String("userId", userID), zap.Error(err))
	}
}
