package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
)

// Bin is one histogram bucket covering [Lo, Hi); the last bin also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo" yaml:"lo" toml:"lo"`
	Hi    float64 `json:"hi" yaml:"hi" toml:"hi"`
	Count int     `json:"count" yaml:"count" toml:"count"`
	// Density is the Gaussian KDE evaluated at the bin center.
	Density float64 `json:"density" yaml:"density" toml:"density"`
}

// Histogram splits values into equal-width bins between min and max. A
// constant sample is centered in a unit-wide range.
func Histogram(xs []float64, bins int) []Bin {
	x := dropNaN(xs)
	if len(x) == 0 || bins <= 0 {
		return nil
	}
	s := moremath.Sample{Xs: x}
	lo, hi := s.Bounds()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range x {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	if len(x) > 1 {
		kde := &moremath.KDE{Sample: s, Bandwidth: scottBandwidth(x)}
		for i := range out {
			if kde.Bandwidth > 0 {
				out[i].Density = kde.PDF((out[i].Lo + out[i].Hi) / 2)
			}
		}
	}
	return out
}

func scottBandwidth(x []float64) float64 {
	d := Describe(x)
	if math.IsNaN(d.Std) || d.Std == 0 {
		return 0
	}
	return 1.06 * d.Std * math.Pow(float64(len(x)), -0.2)
}

// Box holds the statistics drawn by a box plot.
type Box struct {
	Q1     float64 `json:"q1" yaml:"q1" toml:"q1"`
	Median float64 `json:"median" yaml:"median" toml:"median"`
	Q3     float64 `json:"q3" yaml:"q3" toml:"q3"`
	IQR    float64 `json:"iqr" yaml:"iqr" toml:"iqr"`
	// LowerWhisker and UpperWhisker are the most extreme values within 1.5 IQR of the box.
	LowerWhisker float64 `json:"lower_whisker" yaml:"lower_whisker" toml:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker" yaml:"upper_whisker" toml:"upper_whisker"`
	Outliers     int     `json:"outliers" yaml:"outliers" toml:"outliers"`
}

// BoxStats computes box-plot statistics; ok is false for an empty sample.
func BoxStats(xs []float64) (Box, bool) {
	d := Describe(xs, 0.25, 0.5, 0.75)
	if d.Count == 0 {
		return Box{}, false
	}
	b := Box{Q1: d.At(0.25), Median: d.At(0.5), Q3: d.At(0.75)}
	b.IQR = b.Q3 - b.Q1
	loFence, hiFence := b.Q1-1.5*b.IQR, b.Q3+1.5*b.IQR
	b.LowerWhisker, b.UpperWhisker = math.Inf(1), math.Inf(-1)
	for _, v := range dropNaN(xs) {
		if v < loFence || v > hiFence {
			b.Outliers++
			continue
		}
		b.LowerWhisker = math.Min(b.LowerWhisker, v)
		b.UpperWhisker = math.Max(b.UpperWhisker, v)
	}
	return b, true
}
