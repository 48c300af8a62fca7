package buffer

import "math"

// Stats accumulates streaming statistics over a series of values
// without keeping the values themselves.
type Stats struct {
	count          int
	sum            float64
	min, max       float64
	mean, dSquared float64
}

// Summary is a point-in-time view of the pushed values, safe to serialise.
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// NewStats creates an empty Stats accumulator.
func NewStats() *Stats {
	return &Stats{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Push adds another value to the series.
func (s *Stats) Push(v float64) {
	s.count++
	s.sum += v
	mean := s.mean + (v-s.mean)/float64(s.count)
	s.dSquared += (v - mean) * (v - s.mean)
	s.mean = mean

	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
}

// Count returns the number of values pushed.
func (s Stats) Count() int {
	return s.count
}

// Sum returns the sum of all values.
func (s Stats) Sum() float64 {
	return s.sum
}

// Min returns the smallest value pushed, zero for an empty series.
func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the largest value pushed, zero for an empty series.
func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Avg returns the mean of the series.
func (s Stats) Avg() float64 {
	return s.mean
}

// Variance is the population variance of the series.
func (s Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}
	return s.dSquared / float64(s.count)
}

// StDev is the population standard deviation of the series.
func (s Stats) StDev() float64 {
	return math.Sqrt(s.Variance())
}

// SampleVariance is the sample variance of the series.
func (s Stats) SampleVariance() float64 {
	if s.count < 2 {
		return 0
	}
	return s.dSquared / float64(s.count-1)
}

// SampleStDev is the sample standard deviation of the series.
func (s Stats) SampleStDev() float64 {
	return math.Sqrt(s.SampleVariance())
}

// Describe summarises the series.
func (s Stats) Describe() Summary {
	if s.count == 0 {
		return Summary{}
	}
	return Summary{
		Count: s.count,
		Min:   s.min,
		Max:   s.max,
		Mean:  s.mean,
		Std:   s.StDev(),
	}
}
