// Package metrics exposes Prometheus counters for the ingestion and comparison
// pipelines. Ingestion has no user-facing error path, so dropped emails are only
// visible here and in the logs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion outcomes.
const (
	OutcomeCreated          = "created"
	OutcomeDuplicate        = "duplicate"
	OutcomeNoReference      = "no_reference"
	OutcomeUnknownRFP       = "unknown_rfp"
	OutcomeUnknownSender    = "unknown_sender"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomeStoreFailed      = "store_failed"
	OutcomeUnparseable      = "unparseable"
)

// Comparison sources.
const (
	SourceCache  = "cache"
	SourceEngine = "engine"
	SourceQuota  = "quota"
	SourceFailed = "failed"
)

// Metrics groups the collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Ingestion    *prometheus.CounterVec
	Comparisons  *prometheus.CounterVec
	EngineCalls  *prometheus.CounterVec
	PollCycles   *prometheus.CounterVec
	PollDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ingestion: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Name:      "ingested_emails_total",
			Help:      "Vendor emails handled by the ingestion pipeline, by outcome.",
		}, []string{"outcome"}),
		Comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Name:      "comparisons_total",
			Help:      "Proposal comparisons, by result source.",
		}, []string{"source"}),
		EngineCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Name:      "engine_calls_total",
			Help:      "Calls to the text generation engine, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		PollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Name:      "mailbox_poll_cycles_total",
			Help:      "Mailbox poll cycles, by result.",
		}, []string{"result"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "procurement",
			Name:      "mailbox_poll_duration_seconds",
			Help:      "Duration of mailbox poll cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	reg.MustRegister(m.Ingestion, m.Comparisons, m.EngineCalls, m.PollCycles, m.PollDuration)
	return m
}

// IngestionOutcome counts one handled email.
func (m *Metrics) IngestionOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Ingestion.WithLabelValues(outcome).Inc()
}

// Comparison counts one comparison request.
func (m *Metrics) Comparison(source string) {
	if m == nil {
		return
	}
	m.Comparisons.WithLabelValues(source).Inc()
}

// EngineCall counts one engine call.
func (m *Metrics) EngineCall(operation, outcome string) {
	if m == nil {
		return
	}
	m.EngineCalls.WithLabelValues(operation, outcome).Inc()
}

// PollCycle records a finished poll cycle.
func (m *Metrics) PollCycle(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.PollCycles.WithLabelValues(result).Inc()
	m.PollDuration.Observe(took.Seconds())
}
