package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// Metric is the job metric the heat map colors cells by.
type Metric int

const (
	// MetricProcessed counts processed jobs.
	MetricProcessed Metric = iota
	// MetricFailed counts failed jobs.
	MetricFailed
	// MetricTime sums execution time in seconds.
	MetricTime
)

var metricNames = []string{"processed", "failed", "time"}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return "metric(" + strconv.Itoa(int(m)) + ")"
	}
	return metricNames[m]
}

// ParseMetric looks up a metric by name.
func ParseMetric(name string) (Metric, error) {
	for i, n := range metricNames {
		if strings.EqualFold(n, name) {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q (want one of %s)", name, strings.Join(metricNames, ", "))
}

// Next cycles to the following metric.
func (m Metric) Next() Metric {
	return (m + 1) % Metric(len(metricNames))
}

// Of extracts the metric from a point.
func (m Metric) Of(p sidekiq.HeatPoint) float64 {
	switch m {
	case MetricFailed:
		return float64(p.Failed)
	case MetricTime:
		return float64(p.Milliseconds) / 1000
	default:
		return float64(p.Processed)
	}
}

// Format renders a metric value for labels and titles.
func (m Metric) Format(v float64) string {
	if m == MetricTime {
		return strconv.FormatFloat(v, 'f', 1, 64) + "s"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
