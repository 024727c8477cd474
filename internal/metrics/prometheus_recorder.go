package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generateDuration prom.Histogram
	generateOutcomes *prom.CounterVec
	watchEvents      *prom.CounterVec
	lintIssues       *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		generateDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "kbddocs",
			Name:      "generate_duration_seconds",
			Help:      "Duration of documentation generation runs",
			Buckets:   prom.DefBuckets,
		}),
		generateOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "kbddocs",
			Name:      "generate_outcomes_total",
			Help:      "Generation run outcomes",
		}, []string{"outcome"}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "kbddocs",
			Name:      "watch_events_total",
			Help:      "Filesystem events observed on the layouts directory",
		}, []string{"op"}),
		lintIssues: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "kbddocs",
			Name:      "lint_issues",
			Help:      "Issues found by the most recent lint pass",
		}, []string{"severity"}),
	}
	reg.MustRegister(pr.generateDuration, pr.generateOutcomes, pr.watchEvents, pr.lintIssues)
	return pr
}

func (p *PrometheusRecorder) ObserveGenerateDuration(d time.Duration) {
	if p == nil || p.generateDuration == nil {
		return
	}
	p.generateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerateOutcome(outcome Outcome) {
	if p == nil || p.generateOutcomes == nil {
		return
	}
	p.generateOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncWatchEvent(op string) {
	if p == nil || p.watchEvents == nil {
		return
	}
	p.watchEvents.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) SetLintIssues(severity string, count int) {
	if p == nil || p.lintIssues == nil {
		return
	}
	p.lintIssues.WithLabelValues(severity).Set(float64(count))
}
