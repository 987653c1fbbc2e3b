// Package metrics exports engine runs as Prometheus metrics.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/roach88/stochrammar/internal/engine"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector is an engine.Observer that records runs into Prometheus metrics.
// It is safe for concurrent use.
type Collector struct {
	RunsTotal       *prometheus.CounterVec
	ActsTotal       *prometheus.CounterVec
	GrowthsTotal    *prometheus.CounterVec
	RunReplacements *prometheus.HistogramVec
	RunDepth        *prometheus.HistogramVec
}

var _ engine.Observer = (*Collector)(nil)

// NewCollector creates the run metrics and registers them with reg.
// A nil reg creates unregistered metrics.
//
// Metrics:
//   - stochrammar_runs_total{engine,outcome} - Count of finished runs
//   - stochrammar_acts_total{engine} - Count of Act applications
//   - stochrammar_growths_total{engine} - Count of buffer and child storage doublings
//   - stochrammar_run_replacements{engine} - Histogram of Replace calls per run
//   - stochrammar_run_max_depth{engine} - Histogram of expansion depth per run
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stochrammar_runs_total",
				Help: "Total number of finished grammar runs",
			},
			[]string{"engine", "outcome"},
		),
		ActsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stochrammar_acts_total",
				Help: "Total number of token actions applied",
			},
			[]string{"engine"},
		),
		GrowthsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stochrammar_growths_total",
				Help: "Total number of generation buffer and child storage doublings",
			},
			[]string{"engine"},
		),
		RunReplacements: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stochrammar_run_replacements",
				Help:    "Replace calls per run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
			},
			[]string{"engine"},
		),
		RunDepth: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stochrammar_run_max_depth",
				Help:    "Deepest expansion level reached per run",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
			[]string{"engine"},
		),
	}
}

// RunStarted implements engine.Observer.
func (c *Collector) RunStarted(engine.RunInfo) {}

// TokenActed implements engine.Observer. Acts are counted from the run
// stats at RunFinished.
func (c *Collector) TokenActed(engine.ActEvent) {}

// RunFinished implements engine.Observer.
func (c *Collector) RunFinished(info engine.RunInfo, stats engine.Stats, err error) {
	kind := string(info.Engine)
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.RunsTotal.WithLabelValues(kind, outcome).Inc()
	c.ActsTotal.WithLabelValues(kind).Add(float64(stats.Acts))
	c.GrowthsTotal.WithLabelValues(kind).Add(float64(stats.BufferGrowths + stats.ChildGrowths))
	c.RunReplacements.WithLabelValues(kind).Observe(float64(stats.Replacements))
	c.RunDepth.WithLabelValues(kind).Observe(float64(stats.MaxDepth))
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string
	Labels string // "k=v,k=v", sorted by key
	Value  float64
}

func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot gathers g and flattens counters and gauges into samples.
// Histograms contribute their _count and _sum.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := labelString(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{mf.GetName(), labels, m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{mf.GetName(), labels, m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				out = append(out,
					Sample{mf.GetName() + "_count", labels, float64(h.GetSampleCount())},
					Sample{mf.GetName() + "_sum", labels, h.GetSampleSum()},
				)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

func labelString(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
