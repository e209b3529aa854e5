// Package stats holds the numeric summaries used by the analysis and
// simulation packages.
package stats

import (
	"math"
	"sort"

	moremath "github.com/aclements/go-moremath/stats"
)

// DefaultPercentiles are the quantiles reported for numeric columns.
var DefaultPercentiles = []float64{0.01, 0.25, 0.5, 0.75, 0.99}

// Percentile is a quantile and its value.
type Percentile struct {
	P     float64 `json:"p" yaml:"p" toml:"p"`
	Value float64 `json:"value" yaml:"value" toml:"value"`
}

// Description summarizes a numeric sample. Std is the sample standard
// deviation and is NaN for fewer than two values.
type Description struct {
	Count       int          `json:"count" yaml:"count" toml:"count"`
	Mean        float64      `json:"mean" yaml:"mean" toml:"mean"`
	Std         float64      `json:"std" yaml:"std" toml:"std"`
	Min         float64      `json:"min" yaml:"min" toml:"min"`
	Max         float64      `json:"max" yaml:"max" toml:"max"`
	Percentiles []Percentile `json:"percentiles" yaml:"percentiles" toml:"percentiles"`
}

// Describe computes count, mean, std, min, the given quantiles and max.
// NaN values are ignored. With no percentiles the quartiles are used.
func Describe(xs []float64, percentiles ...float64) Description {
	clean := dropNaN(xs)
	if len(percentiles) == 0 {
		percentiles = []float64{0.25, 0.5, 0.75}
	}
	d := Description{Count: len(clean), Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	if len(clean) == 0 {
		for _, p := range percentiles {
			d.Percentiles = append(d.Percentiles, Percentile{P: p, Value: math.NaN()})
		}
		return d
	}
	s := moremath.Sample{Xs: clean}
	d.Mean = s.Mean()
	d.Min, d.Max = s.Bounds()
	if len(clean) > 1 {
		d.Std = s.StdDev()
	}
	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)
	for _, p := range percentiles {
		d.Percentiles = append(d.Percentiles, Percentile{P: p, Value: Quantile(sorted, p)})
	}
	return d
}

// At returns the value recorded for quantile p, or NaN.
func (d Description) At(p float64) float64 {
	for _, pc := range d.Percentiles {
		if pc.P == p {
			return pc.Value
		}
	}
	return math.NaN()
}

// Quantile interpolates linearly between closest ranks of an ascending slice.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// MedianMAD computes the median and median absolute deviation.
func MedianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = Quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = Quantile(dev, 0.5)
	return
}

// RobustOutliers counts values whose modified z-score exceeds threshold.
// Returns zero counts when fewer than 8 values are given or MAD is zero.
func RobustOutliers(vals []float64, threshold float64) (count int, maxAbsZ float64) {
	if len(vals) < 8 {
		return 0, 0
	}
	if threshold <= 0 {
		threshold = 3.5
	}
	median, mad := MedianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > threshold {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
