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
		min       float64
		max       float64
		sum       float64
		stDev     float64
		variance  float64
	}

	tests := map[string]test{
		"monotonically-increasing-+": {
			transform: func(i int) float64 {
				return float64(i)
			},
			avg:      float64(l / 2),
			count:    l,
			min:      0,
			max:      float64(l) - 1,
			sum:      float64(l) * 500,
			stDev:    289,
			variance: 83500,
		},
		"monotonically-increasing-0": {
			transform: func(i int) float64 {
				return float64(-1*l/2) + float64(i)
			},
			avg:   0,
			count: l,
			min:   -1 * float64(l/2),
			max:   float64(l / 2),
			sum:   0,
			// NOTE : spread is the same as the one above
			stDev:    289,
			variance: 83500,
		},
		"all-negative": {
			transform: func(i int) float64 {
				return -1 - float64(i)
			},
			avg:      -1*float64(l/2) - 1,
			count:    l,
			min:      -1 * float64(l),
			max:      -1,
			sum:      -1 * (float64(l)*500 + float64(l)),
			stDev:    289,
			variance: 83500,
		},
		"abs": {
			transform: func(i int) float64 {
				return math.Abs(-1*float64(l/2) + float64(i))
			},
			avg:   float64(l / 4),
			count: l,
			min:   0,
			max:   float64(l / 2),
			sum:   250500,
			// NOTE : half of the monotonical case
			stDev:    289 / 2,
			variance: 83500 / 4,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stats := NewStats()
			for i := 0; i < l; i++ {
				stats.Push(tt.transform(i))
			}
			assert.Equal(t, tt.avg, math.Round(stats.Avg()))
			assert.Equal(t, tt.count, stats.Count())
			assert.Equal(t, tt.min, stats.Min())
			assert.Equal(t, tt.max, stats.Max())
			assert.Equal(t, tt.sum, math.Round(stats.Sum()))
			assert.Equal(t, tt.stDev, math.Round(stats.StDev()))
			assert.Equal(t, tt.variance, math.Round(stats.Variance()))
		})
	}
}

func TestStats_Empty(t *testing.T) {
	stats := NewStats()

	assert.Equal(t, 0, stats.Count())
	assert.Equal(t, 0.0, stats.Min())
	assert.Equal(t, 0.0, stats.Max())
	assert.Equal(t, 0.0, stats.Avg())
	assert.Equal(t, 0.0, stats.Variance())
	assert.Equal(t, 0.0, stats.StDev())

	assert.Equal(t, Summary{}, stats.Describe())
}

func TestStats_Describe(t *testing.T) {
	stats := NewStats()
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		stats.Push(v)
	}

	summary := stats.Describe()
	assert.Equal(t, 8, summary.Count)
	assert.Equal(t, 2.0, summary.Min)
	assert.Equal(t, 9.0, summary.Max)
	assert.InDelta(t, 5.0, summary.Mean, 1e-12)
	assert.InDelta(t, 2.0, summary.Std, 1e-12)
}

func TestStats_SingleValue(t *testing.T) {
	stats := NewStats()
	stats.Push(-3.5)

	assert.Equal(t, -3.5, stats.Min())
	assert.Equal(t, -3.5, stats.Max())
	assert.Equal(t, -3.5, stats.Avg())
	assert.Equal(t, 0.0, stats.StDev())
	assert.Equal(t, 0.0, stats.SampleVariance())
}
