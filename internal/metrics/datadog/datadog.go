// Package datadog implements a DogStatsD backend for the metrics package.
//
// Unlike the Pushgateway backend, which collects into a registry and pushes
// once at the end of the run, DogStatsD is fire-and-forget over UDP: every
// counter increment and duration observation is forwarded to the agent as it
// happens. Labels become Datadog tags, so the stage/status/kind vocabulary
// of the pipeline's metric names carries over unchanged.
package datadog

import (
	"fmt"
	"sort"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/metrics"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// defaultNamespace prefixes all metric names sent by this backend.
const defaultNamespace = "etl."

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string

	// Namespace is a prefix added to all metric names. Empty selects "etl.".
	Namespace string

	// GlobalTags are tags applied to all metrics emitted by this backend,
	// e.g. []string{"env:prod","service:real-estate-etl"}.
	GlobalTags []string
}

// Backend forwards pipeline metrics to a DogStatsD agent. The same instance
// is intended to be installed as the global backend via metrics.SetBackend.
type Backend struct {
	client *statsd.Client
}

// NewBackend connects a statsd client to cfg.Addr. The address is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}

	opts := []statsd.Option{statsd.WithNamespace(cfg.Namespace)}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}

	return &Backend{client: c}, nil
}

// IncCounter forwards a counter increment as a Datadog Count metric.
// Fractional deltas are truncated; the pipeline only emits whole counts.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

// ObserveHistogram forwards a duration observation as a Datadog Histogram.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush drains the client's buffer at process shutdown.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// labelsToTags converts labels into sorted "key:value" tag strings. Sorting
// keeps tag order stable across calls, which DogStatsD aggregation relies on.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
