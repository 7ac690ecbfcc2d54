package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/metrics"
)

func TestRegistryCountsCacheHits(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRegistry(reg)

	r.CacheHits.WithLabelValues("repository_facts").Inc()
	r.CacheHits.WithLabelValues("repository_facts").Inc()

	var metric dto.Metric
	require.NoError(t, r.CacheHits.WithLabelValues("repository_facts").Write(&metric))
	require.InDelta(t, 2.0, metric.GetCounter().GetValue(), 0)
}
