package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{1, 2, 3, 4, math.NaN()}, DefaultPercentiles...)
	assert.Equal(t, 4, d.Count)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487, d.Std, 1e-9)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.InDelta(t, 1.75, d.At(0.25), 1e-12)
	assert.InDelta(t, 2.5, d.At(0.5), 1e-12)
	assert.InDelta(t, 1.03, d.At(0.01), 1e-12)
	assert.True(t, math.IsNaN(d.At(0.42)))
}

func TestDescribeEmptyAndSingle(t *testing.T) {
	d := Describe(nil)
	assert.Equal(t, 0, d.Count)
	assert.True(t, math.IsNaN(d.Mean))
	require.Len(t, d.Percentiles, 3)

	one := Describe([]float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.True(t, math.IsNaN(one.Std))
}

func TestSkewKurt(t *testing.T) {
	x := []float64{1, 2, 3, 4, 100}
	assert.InDelta(t, 2.2324, Skewness(x), 1e-3)
	assert.InDelta(t, 4.9869, Kurtosis(x), 1e-3)
	assert.Equal(t, 0.0, Skewness([]float64{5, 5, 5}))
	assert.True(t, math.IsNaN(Kurtosis([]float64{1, 2, 3})))
}

func TestPearson(t *testing.T) {
	a := []float64{1, 2, 3, 4, math.NaN()}
	b := []float64{2, 4, 6, 8, 1}
	assert.InDelta(t, 1.0, Pearson(a, b), 1e-12)
	assert.InDelta(t, -1.0, Pearson(a, []float64{4, 3, 2, 1, 0}), 1e-12)
	assert.True(t, math.IsNaN(Pearson([]float64{1, 1}, []float64{1, 2})))
}

func TestHistogram(t *testing.T) {
	h := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)
	require.Len(t, h, 5)
	total := 0
	for _, b := range h {
		total += b.Count
		assert.GreaterOrEqual(t, b.Density, 0.0)
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 10.0, h[4].Hi)
	assert.Equal(t, 2, h[4].Count)

	flat := Histogram([]float64{3, 3, 3}, 2)
	require.Len(t, flat, 2)
	assert.Equal(t, 2.5, flat[0].Lo)
	assert.Equal(t, 3, flat[0].Count+flat[1].Count)
}

func TestBoxStats(t *testing.T) {
	b, ok := BoxStats([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100})
	require.True(t, ok)
	assert.Equal(t, 3.0, b.Q1)
	assert.Equal(t, 7.0, b.Q3)
	assert.Equal(t, 1, b.Outliers)
	assert.Equal(t, 8.0, b.UpperWhisker)
	assert.Equal(t, 1.0, b.LowerWhisker)

	_, ok = BoxStats(nil)
	assert.False(t, ok)
}

func TestRobustOutliers(t *testing.T) {
	n, maxZ := RobustOutliers([]float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50}, 0)
	assert.Equal(t, 1, n)
	assert.Greater(t, maxZ, 3.5)
	n, _ = RobustOutliers([]float64{1, 2, 3}, 3.5)
	assert.Equal(t, 0, n)
}

func TestTwoProportionZTest(t *testing.T) {
	z := TwoProportionZTest(100, 1000, 150, 1000)
	assert.False(t, z.Degenerate)
	assert.InDelta(t, 3.3806, z.Z, 1e-3)
	assert.Less(t, z.PValue, 0.001)

	same := TwoProportionZTest(50, 100, 50, 100)
	assert.InDelta(t, 0, same.Z, 1e-12)
	assert.InDelta(t, 1, same.PValue, 1e-12)

	assert.True(t, TwoProportionZTest(0, 0, 3, 10).Degenerate)
	assert.True(t, TwoProportionZTest(0, 10, 0, 10).Degenerate)
}

func TestDescriptionJSONWithNaN(t *testing.T) {
	b, err := json.Marshal(Describe([]float64{4}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"std":null`)
	assert.Contains(t, string(b), `"mean":4`)
}
