// Package sidekiq reads Sidekiq job metrics from Redis.
package sidekiq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/logging"
)

func init() {
	// Disable all Redis logging globally until SetRedisLogger is called
	redis.SetLogger(&logging.VoidLogger{})
}

// SetRedisLogger routes go-redis internal messages (pool and reconnect
// warnings) to l. A nil logger silences them again.
func SetRedisLogger(l *slog.Logger) {
	if l == nil {
		redis.SetLogger(&logging.VoidLogger{})
		return
	}
	redis.SetLogger(redisLogger{logger: l.With(slog.String("module", "redis"))})
}

// redisLogger adapts slog to the go-redis Printf logger.
type redisLogger struct {
	logger *slog.Logger
}

func (l redisLogger) Printf(ctx context.Context, format string, v ...any) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, v...))
}

// Stats holds the global Sidekiq counters.
type Stats struct {
	Processed int64
	Failed    int64
}

// Client is a Sidekiq metrics client.
type Client struct {
	redis           *redis.Client
	displayRedisURL string
	logger          *slog.Logger
	now             func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger logs every Redis command at debug level to l.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock sets the time source that anchors metrics periods.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new Sidekiq client configured from a Redis URL.
func NewClient(redisURL string, opts ...ClientOption) (*Client, error) {
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ropts.MaxRetries = -1               // Disable retries completely
	ropts.DialTimeout = 2 * time.Second // Short timeout to fail fast
	ropts.ReadTimeout = 2 * time.Second
	ropts.WriteTimeout = 2 * time.Second
	ropts.PoolSize = 1

	return newClient(redis.NewClient(ropts), sanitizeRedisURL(redisURL), opts...), nil
}

func newClient(rdb *redis.Client, displayURL string, opts ...ClientOption) *Client {
	c := &Client{
		redis:           rdb,
		displayRedisURL: displayURL,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger != nil {
		rdb.AddHook(newLogHook(c.logger))
	}
	return c
}

// DisplayRedisURL returns a sanitized URL safe for display.
func (c *Client) DisplayRedisURL() string {
	return c.displayRedisURL
}

func sanitizeRedisURL(redisURL string) string {
	if redisURL == "" {
		return ""
	}
	parsed, err := url.Parse(redisURL)
	if err != nil {
		return redisURL
	}
	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = nil
		} else {
			parsed.User = url.User(username)
		}
	}
	return parsed.String()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.redis.Close()
}

// GetStats fetches the global processed and failed counters.
func (c *Client) GetStats(ctx context.Context) (Stats, error) {
	values, err := c.redis.MGet(ctx, "stat:processed", "stat:failed").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}

	var stats Stats
	if len(values) == 2 {
		stats.Processed = parseCounter(values[0])
		stats.Failed = parseCounter(values[1])
	}
	return stats, nil
}

func parseCounter(value any) int64 {
	switch v := value.(type) {
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case int64:
		return v
	default:
		return 0
	}
}
