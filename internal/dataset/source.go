package dataset

import (
	"context"

	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// Source produces the job metrics the heat map shows.
type Source interface {
	// Fetch returns the current metrics.
	Fetch(ctx context.Context) (sidekiq.JobHeat, error)
	// String describes the source for display.
	String() string
}

// RedisSource queries live Sidekiq metrics.
type RedisSource struct {
	api   sidekiq.API
	query sidekiq.HeatQuery
}

// NewRedisSource creates a source that runs query against api.
func NewRedisSource(api sidekiq.API, query sidekiq.HeatQuery) *RedisSource {
	return &RedisSource{api: api, query: query}
}

// Fetch implements Source.
func (s *RedisSource) Fetch(ctx context.Context) (sidekiq.JobHeat, error) {
	return s.api.GetJobHeat(ctx, s.query)
}

// String implements Source.
func (s *RedisSource) String() string {
	return s.api.DisplayRedisURL()
}

// FileSource reads a snapshot file on every fetch.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) (sidekiq.JobHeat, error) {
	if err := ctx.Err(); err != nil {
		return sidekiq.JobHeat{}, err
	}
	return Load(s.path)
}

// String implements Source.
func (s *FileSource) String() string {
	return s.path
}

// Path returns the snapshot path.
func (s *FileSource) Path() string {
	return s.path
}
