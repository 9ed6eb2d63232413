package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IngestionOutcome(OutcomeCreated)
	m.IngestionOutcome(OutcomeCreated)
	m.IngestionOutcome(OutcomeDuplicate)
	m.Comparison(SourceCache)
	m.EngineCall("score_proposals", "ok")
	m.PollCycle("ok", 150*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ingestion.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Ingestion.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comparisons.WithLabelValues(SourceCache)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EngineCalls.WithLabelValues("score_proposals", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollCycles.WithLabelValues("ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IngestionOutcome(OutcomeCreated)
		m.Comparison(SourceEngine)
		m.EngineCall("x", "y")
		m.PollCycle("ok", time.Second)
	})
}
