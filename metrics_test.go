package skipgram

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c, err := OpenCatalog(writeCorpus(t, sequence(0, 3, 2)), CatalogOptions{Metrics: metrics})
	require.NoError(t, err)
	loader := NewDataLoader(c, nil)

	// fill 3 + 3 slides = 6 tokens over a 5 token corpus: one wrap, three loads
	_, _, err = loader.NextBatch(6, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.Tokens))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Batches))
	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.Pairs))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CorpusWraps))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.CurrentShard))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ShardLoads.WithLabelValues("0")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ShardLoads.WithLabelValues("1")))

	count, err := testutil.GatherAndCount(reg, "skipgram_shard_load_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.shardLoaded(0, 1, 0)
		m.wrapped()
		m.tokenRead()
		m.batchDone(4)
	})
}
