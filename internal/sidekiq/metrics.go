package sidekiq

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// MetricsGranularity defines the rollup granularity for metrics queries.
type MetricsGranularity int

const (
	// MetricsGranularityMinutely uses per-minute buckets.
	MetricsGranularityMinutely MetricsGranularity = iota
	// MetricsGranularityHourly uses 10-minute buckets.
	MetricsGranularityHourly
)

// MetricsPeriod defines a query period in minutes or hours.
type MetricsPeriod struct {
	Minutes int
	Hours   int
}

// MetricsPeriods matches Sidekiq's supported metric periods.
var MetricsPeriods = map[string]MetricsPeriod{
	"1h":  {Minutes: 60},
	"2h":  {Minutes: 120},
	"4h":  {Minutes: 240},
	"8h":  {Minutes: 480},
	"24h": {Hours: 24},
	"48h": {Hours: 48},
	"72h": {Hours: 72},
}

// MetricsPeriodOrder defines the display order for periods.
var MetricsPeriodOrder = []string{"1h", "2h", "4h", "8h", "24h", "48h", "72h"}

// ParseMetricsPeriod looks up a period by name, such as "1h" or "24h".
func ParseMetricsPeriod(name string) (MetricsPeriod, error) {
	period, ok := MetricsPeriods[name]
	if !ok {
		return MetricsPeriod{}, fmt.Errorf("unknown metrics period %q (want one of %s)", name, strings.Join(MetricsPeriodOrder, ", "))
	}
	return period, nil
}

// HeatQuery selects the metrics GetJobHeat returns.
type HeatQuery struct {
	Period MetricsPeriod
	// Bucket merges rollups into coarser time buckets. Values below the
	// rollup granularity keep the rollup buckets.
	Bucket time.Duration
	// ClassFilter keeps job classes containing it, case-insensitively.
	ClassFilter string
}

// HeatPoint holds the metrics of one job class in one time bucket.
type HeatPoint struct {
	Bucket       time.Time `json:"bucket" yaml:"bucket"`
	Class        string    `json:"class" yaml:"class"`
	Processed    int64     `json:"processed" yaml:"processed"`
	Failed       int64     `json:"failed" yaml:"failed"`
	Milliseconds int64     `json:"ms" yaml:"ms"`
}

// Success returns the count of successful jobs.
func (p HeatPoint) Success() int64 {
	return max(p.Processed-p.Failed, 0)
}

// AvgSeconds returns the average execution time in seconds.
func (p HeatPoint) AvgSeconds() float64 {
	completed := p.Success()
	if completed == 0 {
		return 0
	}
	return float64(p.Milliseconds) / 1000.0 / float64(completed)
}

// JobHeat is the result of a heat query. Points are ordered by bucket, then
// by class.
type JobHeat struct {
	Granularity MetricsGranularity
	BucketSize  time.Duration
	StartsAt    time.Time
	EndsAt      time.Time
	Buckets     []time.Time
	Points      []HeatPoint
}

type heatKey struct {
	bucket time.Time
	class  string
}

// GetJobHeat fetches job metrics per time bucket and job class within the
// period. Sidekiq 7 and 8 rollup keys are both read.
func (c *Client) GetJobHeat(ctx context.Context, query HeatQuery) (JobHeat, error) {
	granularity, count, stride := metricsRollup(query.Period)
	bucketSize := max(query.Bucket, stride)
	now := c.now().UTC()
	result := JobHeat{
		Granularity: granularity,
		BucketSize:  bucketSize,
		EndsAt:      now,
		StartsAt:    now,
	}
	if count == 0 {
		return result, nil
	}

	type rollup struct {
		bucket time.Time
		cmd    *redis.MapStringStringCmd
	}
	rollups := make([]rollup, 0, count*2)
	pipe := c.redis.Pipeline()
	cursor := now
	for range count {
		bucket := cursor.Truncate(bucketSize)
		if len(result.Buckets) == 0 || !result.Buckets[len(result.Buckets)-1].Equal(bucket) {
			result.Buckets = append(result.Buckets, bucket)
		}
		for _, key := range metricsRollupKeys(cursor, granularity) {
			rollups = append(rollups, rollup{bucket: bucket, cmd: pipe.HGetAll(ctx, key)})
		}
		cursor = cursor.Add(-stride)
	}
	result.StartsAt = cursor.Add(stride)
	slices.Reverse(result.Buckets)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return result, fmt.Errorf("fetch job metrics: %w", err)
	}

	filter := strings.ToLower(query.ClassFilter)
	points := make(map[heatKey]*HeatPoint)
	for _, r := range rollups {
		if err := r.cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return result, fmt.Errorf("fetch job metrics: %w", err)
		}
		for field, value := range r.cmd.Val() {
			className, metric := splitMetricKey(field)
			if className == "" {
				continue
			}
			if filter != "" && !strings.Contains(strings.ToLower(className), filter) {
				continue
			}
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}

			k := heatKey{bucket: r.bucket, class: className}
			p, ok := points[k]
			if !ok {
				p = &HeatPoint{Bucket: r.bucket, Class: className}
				points[k] = p
			}
			switch metric {
			case "ms":
				p.Milliseconds += parsed
			case "p":
				p.Processed += parsed
			case "f":
				p.Failed += parsed
			}
		}
	}

	result.Points = make([]HeatPoint, 0, len(points))
	for _, p := range points {
		result.Points = append(result.Points, *p)
	}
	slices.SortFunc(result.Points, func(a, b HeatPoint) int {
		if n := a.Bucket.Compare(b.Bucket); n != 0 {
			return n
		}
		return cmp.Compare(a.Class, b.Class)
	})
	return result, nil
}

func metricsRollup(period MetricsPeriod) (MetricsGranularity, int, time.Duration) {
	if period.Hours > 0 {
		hours := min(period.Hours, 72)
		return MetricsGranularityHourly, hours * 6, 10 * time.Minute
	}

	minutes := period.Minutes
	if minutes == 0 {
		minutes = 60
	}
	minutes = min(minutes, 480)
	return MetricsGranularityMinutely, minutes, time.Minute
}

func metricsRollupKeySidekiq8(t time.Time, granularity MetricsGranularity) string {
	t = t.UTC()
	date := t.Format("060102")
	hour := t.Hour()
	minute := t.Minute()
	if granularity == MetricsGranularityHourly {
		minute /= 10
		return fmt.Sprintf("j|%s|%d:%d", date, hour, minute)
	}
	return fmt.Sprintf("j|%s|%d:%02d", date, hour, minute)
}

func metricsRollupKeys(t time.Time, granularity MetricsGranularity) []string {
	keys := []string{
		metricsRollupKeySidekiq8(t, granularity),
	}
	if sidekiq7Key := metricsRollupKeySidekiq7(t, granularity); sidekiq7Key != "" && sidekiq7Key != keys[0] {
		keys = append(keys, sidekiq7Key)
	}
	return keys
}

func metricsRollupKeySidekiq7(t time.Time, granularity MetricsGranularity) string {
	// Sidekiq 7 only writes minute buckets (no 10-minute rollups).
	if granularity == MetricsGranularityHourly {
		return ""
	}
	t = t.UTC()
	date := t.Format("20060102")
	return fmt.Sprintf("j|%s|%d:%d", date, t.Hour(), t.Minute())
}

func splitMetricKey(value string) (string, string) {
	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
