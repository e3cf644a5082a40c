package skipgram

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks corpus paging and batch production. A nil *Metrics records nothing.
type Metrics struct {
	ShardLoads       *prometheus.CounterVec
	ShardLoadSeconds prometheus.Histogram
	CurrentShard     prometheus.Gauge
	CorpusWraps      prometheus.Counter
	Tokens           prometheus.Counter
	Batches          prometheus.Counter
	Pairs            prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ShardLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skipgram_shard_loads_total",
				Help: "shards read from disk",
			},
			[]string{"shard"},
		),
		ShardLoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skipgram_shard_load_seconds",
			Help:    "time spent reading one shard",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		CurrentShard: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skipgram_current_shard",
			Help: "index of the resident shard",
		}),
		CorpusWraps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_corpus_wraps_total",
			Help: "times the cursor restarted at the first shard",
		}),
		Tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_tokens_total",
			Help: "tokens read through the cursor",
		}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_batches_total",
			Help: "batches produced",
		}),
		Pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_pairs_total",
			Help: "(input, label) pairs produced",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ShardLoads, m.ShardLoadSeconds, m.CurrentShard, m.CorpusWraps, m.Tokens, m.Batches, m.Pairs)
	}
	return m
}

func (m *Metrics) shardLoaded(shard, tokens int, took time.Duration) {
	if m == nil {
		return
	}
	m.ShardLoads.WithLabelValues(strconv.Itoa(shard)).Inc()
	m.ShardLoadSeconds.Observe(took.Seconds())
	m.CurrentShard.Set(float64(shard))
}

func (m *Metrics) wrapped() {
	if m == nil {
		return
	}
	m.CorpusWraps.Inc()
}

func (m *Metrics) tokenRead() {
	if m == nil {
		return
	}
	m.Tokens.Inc()
}

func (m *Metrics) batchDone(pairs int) {
	if m == nil {
		return
	}
	m.Batches.Inc()
	m.Pairs.Add(float64(pairs))
}
