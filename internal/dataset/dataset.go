// Package dataset reads and writes job metrics snapshots as JSON or YAML
// files, so the heat map can run without a live Redis.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// ErrUnknownFormat is returned for file extensions other than .json, .yaml
// and .yml.
var ErrUnknownFormat = errors.New("unknown dataset format")

// Format is a snapshot encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Snapshot is the on-disk form of a heat query result.
type Snapshot struct {
	BucketSize string              `json:"bucket_size,omitempty" yaml:"bucket_size,omitempty"`
	Points     []sidekiq.HeatPoint `json:"points" yaml:"points"`
}

// Load reads the snapshot at path.
func Load(path string) (sidekiq.JobHeat, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return sidekiq.JobHeat{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return sidekiq.JobHeat{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a snapshot from r.
func Decode(r io.Reader, format Format) (sidekiq.JobHeat, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return sidekiq.JobHeat{}, fmt.Errorf("read dataset: %w", err)
	}

	var snap Snapshot
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return sidekiq.JobHeat{}, fmt.Errorf("parse %s dataset: %w", format, err)
	}
	return snap.heat()
}

func (s Snapshot) heat() (sidekiq.JobHeat, error) {
	heat := sidekiq.JobHeat{
		Granularity: sidekiq.MetricsGranularityMinutely,
		BucketSize:  time.Minute,
		Points:      s.Points,
	}
	if s.BucketSize != "" {
		d, err := time.ParseDuration(s.BucketSize)
		if err != nil || d <= 0 {
			return sidekiq.JobHeat{}, fmt.Errorf("parse dataset: invalid bucket_size %q", s.BucketSize)
		}
		heat.BucketSize = d
	}
	if heat.BucketSize >= 10*time.Minute {
		heat.Granularity = sidekiq.MetricsGranularityHourly
	}
	for _, p := range s.Points {
		if !slices.ContainsFunc(heat.Buckets, p.Bucket.Equal) {
			heat.Buckets = append(heat.Buckets, p.Bucket)
		}
	}
	slices.SortFunc(heat.Buckets, time.Time.Compare)
	if len(heat.Buckets) > 0 {
		heat.StartsAt = heat.Buckets[0]
		heat.EndsAt = heat.Buckets[len(heat.Buckets)-1].Add(heat.BucketSize)
	}
	return heat, nil
}

// Write encodes heat to w.
func Write(w io.Writer, format Format, heat sidekiq.JobHeat) error {
	snap := Snapshot{Points: heat.Points}
	if heat.BucketSize > 0 {
		snap.BucketSize = heat.BucketSize.String()
	}
	if snap.Points == nil {
		snap.Points = []sidekiq.HeatPoint{}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case YAML:
		data, err = yaml.Marshal(snap)
	default:
		data, err = json.MarshalIndent(snap, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s dataset: %w", format, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Save writes heat to path in the format its extension names.
func Save(path string, heat sidekiq.JobHeat) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := Write(f, format, heat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
