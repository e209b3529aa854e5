// Package simulate generates synthetic tables and runs toy A/B experiments.
// All randomness comes from a caller-supplied *gofakeit.Faker, so a fixed
// seed reproduces a run exactly.
package simulate

import (
	"math"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/stats"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

const (
	// DefaultSamples is the synthetic row count used when n <= 0.
	DefaultSamples = 1000
	// discreteLimit is the distinct-count below which numeric columns are
	// resampled from observed values instead of a normal fit.
	discreteLimit = 20
)

// NewSource returns a seeded random source.
func NewSource(seed int64) *gofakeit.Faker { return gofakeit.New(seed) }

// Synthesize draws n rows that mimic the marginal distribution of each
// column of t. Columns are sampled independently:
//   - numeric with fewer than 20 distinct values: uniform over observed values
//   - other numeric: normal with the observed mean and sample std
//   - text and bool: uniform over observed values
//
// All-missing columns and datetime columns are skipped with a warning.
func Synthesize(t *table.Table, n int, src *gofakeit.Faker, sink report.Sink) *table.Table {
	if sink == nil {
		sink = report.Discard{}
	}
	if n <= 0 {
		n = DefaultSamples
	}
	if src == nil {
		src = NewSource(0)
	}
	out := &table.Table{Name: "synthetic", Rows: n}
	if t.Name != "" {
		out.Name = t.Name + " (synthetic)"
	}
	for _, c := range t.Columns {
		if c.Missing() == c.Len() {
			report.Warnf(sink, "Skipping column '%s': no valid data.", c.Name)
			continue
		}
		var col *table.Column
		switch c.Kind {
		case table.KindNumeric:
			col = synthNumeric(c, n, src)
		case table.KindText:
			col = table.NewText(c.Name, pick(c.Unique(), n, src))
		case table.KindBool:
			col = &table.Column{Name: c.Name, Kind: table.KindBool, Values: pick(c.Unique(), n, src)}
		default:
			report.Warnf(sink, "Skipping unsupported column '%s' with kind %s.", c.Name, c.Kind)
			continue
		}
		out.Columns = append(out.Columns, col)
	}
	sink.Emit(report.Stat{Name: "synthetic_rows", Subject: out.Name, Value: n})
	return out
}

func synthNumeric(c *table.Column, n int, src *gofakeit.Faker) *table.Column {
	vals := c.Floats()
	if c.Distinct() < discreteLimit {
		uniq := uniqueFloats(vals)
		nums := make([]float64, n)
		for i := range nums {
			nums[i] = uniq[src.Rand.Intn(len(uniq))]
		}
		return table.NewNumeric(c.Name, nums)
	}
	d := stats.Describe(vals)
	std := d.Std
	if math.IsNaN(std) {
		std = 0
	}
	nums := make([]float64, n)
	for i := range nums {
		nums[i] = d.Mean + std*src.Rand.NormFloat64()
	}
	return table.NewNumeric(c.Name, nums)
}

// uniqueFloats returns distinct values in first-seen order.
func uniqueFloats(vals []float64) []float64 {
	seen := make(map[float64]struct{}, len(vals))
	var out []float64
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func pick(choices []string, n int, src *gofakeit.Faker) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = choices[src.Rand.Intn(len(choices))]
	}
	return out
}
