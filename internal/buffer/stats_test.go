package buffer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Push(t *testing.T) {

	l := 1001

	type test struct {
		transform func(i int) float64
		avg       float64
		count     int
		diff      float64
		stDev     float64
		variance  float64
		sum       float64
		min       float64
		max       float64
	}

	tests := map[string]test{
		"monotonically-increasing-+": {
			transform: func(i int) float64 {
				return float64(i)
			},
			avg:      float64(l / 2),
			count:    l,
			sum:      float64(l) * 500,
			diff:     float64(l) - 1,
			stDev:    289,
			variance: 83500,
			min:      0,
			max:      1000,
		},
		"monotonically-decreasing--": {
			transform: func(i int) float64 {
				return -1 * float64(i)
			},
			avg:   -1 * float64(l/2),
			count: l,
			sum:   -1 * float64(l) * 500,
			diff:  -1 * (float64(l) - 1),
			// NOTE : these are the same as for the increasing case
			stDev:    289,
			variance: 83500,
			min:      -1000,
			max:      0,
		},
		"abs-+": {
			transform: func(i int) float64 {
				return math.Abs(-1*float64(l/2) + float64(i))
			},
			avg:   float64(l / 4),
			count: l,
			sum:   250500,
			diff:  0,
			// NOTE : these are half of the monotonical case
			stDev:    289 / 2,
			variance: 83500 / 4,
			min:      0,
			max:      500,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stats := NewStats()
			for i := 0; i < l; i++ {
				v := tt.transform(i)
				stats.Push(v)
			}
			assert.Equal(t, tt.avg, math.Round(stats.Avg()))
			assert.Equal(t, tt.count, stats.Count())
			assert.Equal(t, tt.sum, math.Round(stats.Sum()))
			assert.Equal(t, tt.diff, math.Round(stats.Diff()))
			assert.Equal(t, tt.stDev, math.Round(stats.StDev()))
			assert.Equal(t, tt.variance, math.Round(stats.Variance()))
			assert.Equal(t, tt.min, stats.Min())
			assert.Equal(t, tt.max, stats.Max())
		})
	}
}

func TestStatsCollector_Push(t *testing.T) {
	collector := NewStatsCollector(2)
	collector.Push(1, 10)
	collector.Push(3, 30)

	assert.Equal(t, 2, collector.Size())
	assert.Equal(t, 2.0, collector.Stats()[0].Avg())
	assert.Equal(t, 20.0, collector.Stats()[1].Avg())
	assert.Panics(t, func() {
		collector.Push(1)
	})
}
