package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Change-feed event types, mirroring the row-level events of the store.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

const changeChannelPrefix = "store:events:"

var ErrCacheMiss = errors.New("cache miss")

// ChangeEvent is one row-level change published on a collection channel.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	EventType  string    `json:"event_type"`
	EntityID   uint      `json:"entity_id"`
	Summary    string    `json:"summary,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func ChannelFor(collection string) string {
	return changeChannelPrefix + collection
}

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// PublishChange emits the event on its collection channel and on the
// firehose channel subscribed by the notification listener.
func (c *Client) PublishChange(ctx context.Context, event ChangeEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := c.rdb.Publish(ctx, ChannelFor(event.Collection), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := c.rdb.Publish(ctx, changeChannelPrefix+"all", eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}

	return nil
}

// SubscribeChanges subscribes to the change feed of the given collections.
// Events arrive on the returned channel until cancel is called or ctx ends.
func (c *Client) SubscribeChanges(ctx context.Context, collections ...string) (<-chan ChangeEvent, func()) {
	channels := make([]string, 0, len(collections))
	for _, collection := range collections {
		channels = append(channels, ChannelFor(collection))
	}

	pubsub := c.rdb.Subscribe(ctx, channels...)
	events := make(chan ChangeEvent)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { pubsub.Close() }
}

// Cache helpers (public menu)

func (c *Client) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.rdb.Set(ctx, "cache:"+key, jsonData, ttl).Err()
}

func (c *Client) GetCache(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, "cache:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) DeleteCache(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, "cache:"+key).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
