package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReactionMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReactionMetrics(reg)

	m.Observe("applied", 1, 10*time.Millisecond)
	m.Observe("applied", -1, 10*time.Millisecond)
	m.Observe("applied", 1, 10*time.Millisecond)
	m.Observe("stale", 0, time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReactionsProcessed.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReactionsProcessed.WithLabelValues("stale")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.KarmaAdjustments.WithLabelValues("up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KarmaAdjustments.WithLabelValues("down")))
}

func TestNewRegistry_HasRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
