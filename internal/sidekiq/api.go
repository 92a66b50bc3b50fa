package sidekiq

import "context"

// API is the part of the Sidekiq client the heat map depends on.
// It lets tests and offline datasets stand in for Redis.
type API interface {
	// Close closes the Redis connection.
	Close() error

	// DisplayRedisURL returns a sanitized URL safe for display.
	DisplayRedisURL() string

	// GetStats fetches the global processed and failed counters.
	GetStats(ctx context.Context) (Stats, error)

	// GetJobHeat fetches per-bucket, per-class job metrics.
	GetJobHeat(ctx context.Context, query HeatQuery) (JobHeat, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)
