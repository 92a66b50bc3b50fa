package dataset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

const jsonSnapshot = `{
  "bucket_size": "5m",
  "points": [
    {"bucket": "2026-03-14T15:05:00Z", "class": "App::FooJob", "processed": 10, "failed": 1, "ms": 1500},
    {"bucket": "2026-03-14T15:00:00Z", "class": "App::BarJob", "processed": 3}
  ]
}`

const yamlSnapshot = `
bucket_size: 5m
points:
  - bucket: 2026-03-14T15:05:00Z
    class: App::FooJob
    processed: 10
    failed: 1
    ms: 1500
  - bucket: 2026-03-14T15:00:00Z
    class: App::BarJob
    processed: 3
`

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "json", format: JSON, input: jsonSnapshot},
		{name: "yaml", format: YAML, input: yamlSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heat, err := Decode(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if heat.BucketSize != 5*time.Minute {
				t.Errorf("BucketSize = %v, want 5m", heat.BucketSize)
			}
			if len(heat.Points) != 2 {
				t.Fatalf("len(Points) = %d, want 2", len(heat.Points))
			}
			foo := heat.Points[0]
			if foo.Class != "App::FooJob" || foo.Processed != 10 || foo.Failed != 1 || foo.Milliseconds != 1500 {
				t.Errorf("Points[0] = %+v", foo)
			}

			first := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
			if len(heat.Buckets) != 2 || !heat.Buckets[0].Equal(first) {
				t.Errorf("Buckets = %v, want ascending from %v", heat.Buckets, first)
			}
			if !heat.StartsAt.Equal(first) || !heat.EndsAt.Equal(first.Add(10*time.Minute)) {
				t.Errorf("range = %v..%v", heat.StartsAt, heat.EndsAt)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "malformed json", format: JSON, input: `{"points": [`},
		{name: "malformed yaml", format: YAML, input: "points: [\n"},
		{name: "bad bucket size", format: JSON, input: `{"bucket_size": "soon", "points": []}`},
		{name: "negative bucket size", format: YAML, input: "bucket_size: -5m\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.input), tt.format); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "metrics.json", want: JSON},
		{path: "metrics.YAML", want: YAML},
		{path: "/tmp/m.yml", want: YAML},
		{path: "metrics.csv", wantErr: true},
		{path: "metrics", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("FormatFromPath(%q) error = %v, want ErrUnknownFormat", tt.path, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("FormatFromPath(%q) = %v, %v; want %v", tt.path, got, err, tt.want)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	heat := sidekiq.JobHeat{
		BucketSize: time.Minute,
		Points: []sidekiq.HeatPoint{
			{Bucket: time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC), Class: "App::FooJob", Processed: 7},
		},
	}

	for _, name := range []string{"snap.json", "snap.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, heat); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got.Points) != 1 || got.Points[0].Class != "App::FooJob" || got.Points[0].Processed != 7 {
				t.Errorf("Points = %+v", got.Points)
			}
			if !got.Points[0].Bucket.Equal(heat.Points[0].Bucket) {
				t.Errorf("Bucket = %v, want %v", got.Points[0].Bucket, heat.Points[0].Bucket)
			}
		})
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, JSON, sidekiq.JobHeat{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"points": []`) {
		t.Errorf("Write() = %s, want an empty points array", buf.String())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load() error = nil, want error")
	}
}
