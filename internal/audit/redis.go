// internal/audit/redis.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes each event on a channel and keeps the most recent
// events in a capped list, newest first.
type RedisSink struct {
	client      redis.UniversalClient
	channel     string
	recentKey   string
	recentLimit int64
}

func NewRedisSink(client redis.UniversalClient, channel, recentKey string, recentLimit int) *RedisSink {
	return &RedisSink{
		client:      client,
		channel:     channel,
		recentKey:   recentKey,
		recentLimit: int64(recentLimit),
	}
}

func (s *RedisSink) Record(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Publish(ctx, s.channel, payload)
	if s.recentLimit > 0 {
		pipe.LPush(ctx, s.recentKey, payload)
		pipe.LTrim(ctx, s.recentKey, 0, s.recentLimit-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record event: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest recorded events.
func (s *RedisSink) Recent(ctx context.Context, limit int64) ([]Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	vals, err := s.client.LRange(ctx, s.recentKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read recent events: %w", err)
	}

	events := make([]Event, 0, len(vals))
	for _, v := range vals {
		var e Event
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
