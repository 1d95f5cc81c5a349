package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementTransition("verify", "Verified")
	m.IncrementTransition("verify", "Verified")
	m.IncrementDecodeFailure("missing_field")
	m.AddSampled(5)
	m.ObserveOperation("verify", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("verify", "Verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeFailures.WithLabelValues("missing_field")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.SampledAccounts))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}
