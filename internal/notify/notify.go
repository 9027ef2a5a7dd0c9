// Package notify fans scrape results out to subscribed users over
// Redis pub/sub. Each subscriber id listed under the subscribers set
// gets the run's new-listing count published on its own channel, where
// the realtime gateway forwards it to connected clients.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Event is the payload published per subscriber.
type Event struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// FormatMessage renders the human-readable text carried alongside the
// count. The text is fixed regardless of count, including zero.
func FormatMessage(count int) string {
	return fmt.Sprintf("%d new internship opportunities found!", count)
}

// RedisNotifier publishes scrape events to per-user Redis channels.
type RedisNotifier struct {
	rdb            *redis.Client
	subscribersKey string
	channelPrefix  string
	logger         *zap.Logger
}

// NewRedisNotifier creates a notifier. subscribersKey names the set of
// user ids to fan out to; channelPrefix is prepended to each id to form
// the channel name.
func NewRedisNotifier(rdb *redis.Client, subscribersKey, channelPrefix string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		rdb:            rdb,
		subscribersKey: subscribersKey,
		channelPrefix:  channelPrefix,
		logger:         logger,
	}
}

// NotifyNewInternships publishes the run's count to every subscriber.
// Delivery is best-effort: failures are logged, never returned, and a
// zero count is still delivered.
func (n *RedisNotifier) NotifyNewInternships(ctx context.Context, count int) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	subscribers, err := n.rdb.SMembers(ctx, n.subscribersKey).Result()
	if err != nil {
		n.logger.Warn("Failed to load notification subscribers", zap.Error(err))
		return
	}

	payload, err := json.Marshal(Event{Count: count, Message: FormatMessage(count)})
	if err != nil {
		n.logger.Warn("Failed to encode notification payload", zap.Error(err))
		return
	}

	delivered := 0
	for _, userID := range subscribers {
		channel := n.channelPrefix + userID
		if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
			n.logger.Warn("Notification publish failed",
				zap.String("channel", channel), zap.Error(err))
			continue
		}
		delivered++
	}

	n.logger.Info("Scrape notifications sent",
		zap.Int("count", count), zap.Int("subscribers", delivered))
}
