package skipgram

import (
	"github.com/montanaflynn/stats"
)

// ShardSummary describes how tokens are spread over shards.
type ShardSummary struct {
	Shards int
	Tokens int64
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

func SummarizeShards(sizes []int64) (ShardSummary, error) {
	data := make(stats.Float64Data, len(sizes))
	var total int64
	for i, n := range sizes {
		data[i] = float64(n)
		total += n
	}
	s := ShardSummary{Shards: len(sizes), Tokens: total}
	var err error
	if s.Min, err = data.Min(); err != nil {
		return ShardSummary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return ShardSummary{}, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return ShardSummary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return ShardSummary{}, err
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return ShardSummary{}, err
	}
	return s, nil
}
