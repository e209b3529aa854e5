package stats

import "math"

// Skewness is the adjusted Fisher-Pearson sample skewness. NaN for fewer
// than three values, zero for constant samples.
func Skewness(xs []float64) float64 {
	x := dropNaN(xs)
	n := float64(len(x))
	if n < 3 {
		return math.NaN()
	}
	mean := mean(x)
	var m2, m3 float64
	for _, v := range x {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return math.Sqrt(n*(n-1)) / (n - 2) * m3 / math.Pow(m2, 1.5)
}

// Kurtosis is the bias-corrected excess kurtosis. NaN for fewer than four
// values, zero for constant samples.
func Kurtosis(xs []float64) float64 {
	x := dropNaN(xs)
	n := float64(len(x))
	if n < 4 {
		return math.NaN()
	}
	mean := mean(x)
	var m2, m4 float64
	for _, v := range x {
		d := v - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	if m2 == 0 {
		return 0
	}
	num := n * (n + 1) * (n - 1) * m4
	den := (n - 2) * (n - 3) * m2 * m2
	adj := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return num/den - adj
}

// Pearson computes the correlation of pairwise-complete observations.
// Returns NaN when fewer than two pairs exist or either side is constant.
func Pearson(a, b []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := 0; i < len(a) && i < len(b); i++ {
		x, y := a[i], b[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if n < 2 {
		return math.NaN()
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 || math.IsNaN(denom) {
		return math.NaN()
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}
