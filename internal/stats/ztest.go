package stats

import (
	"math"

	moremath "github.com/aclements/go-moremath/stats"
)

// ZTest is the outcome of a two-sample proportion test.
type ZTest struct {
	Z      float64 `json:"z" yaml:"z" toml:"z"`
	PValue float64 `json:"p_value" yaml:"p_value" toml:"p_value"`
	// Degenerate is set when the statistic is undefined (empty group or
	// pooled rate of 0 or 1); Z is then 0 and PValue 1.
	Degenerate bool `json:"degenerate" yaml:"degenerate" toml:"degenerate"`
}

// TwoProportionZTest compares success rates x1/n1 and x2/n2 using the pooled
// standard error and a two-sided normal p-value. Z is positive when the
// second rate is higher.
func TwoProportionZTest(x1, n1, x2, n2 int) ZTest {
	if n1 == 0 || n2 == 0 {
		return ZTest{PValue: 1, Degenerate: true}
	}
	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		return ZTest{PValue: 1, Degenerate: true}
	}
	z := (p2 - p1) / se
	p := 2 * (1 - moremath.StdNormal.CDF(math.Abs(z)))
	return ZTest{Z: z, PValue: p}
}
