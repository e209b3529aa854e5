package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/stats"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// OtherLabel collects values outside the top N in TopCategories.
const OtherLabel = "Other"

// CategoryCounts is the frequency table of one column.
type CategoryCounts struct {
	Column string             `json:"column" yaml:"column" toml:"column"`
	Total  int                `json:"total" yaml:"total" toml:"total"`
	Counts []table.ValueCount `json:"counts" yaml:"counts" toml:"counts"`
}

// Count returns the frequency recorded for value, or 0.
func (c CategoryCounts) Count(value string) int {
	for _, vc := range c.Counts {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}

// Markdown renders counts with their share of the non-missing total.
func (c CategoryCounts) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[VALUE COUNTS] %s\n", safeName(c.Column)))
	rows := make([][]string, len(c.Counts))
	for i, vc := range c.Counts {
		share := 0.0
		if c.Total > 0 {
			share = float64(vc.Count) * 100 / float64(c.Total)
		}
		rows[i] = []string{vc.Value, fmt.Sprintf("%d", vc.Count), fmt.Sprintf("%.1f%%", share)}
	}
	writeTable(&b, []string{"value", "count", "share"}, rows)
	return b.String()
}

// CategoricalCounts computes value counts for each named column. Unknown
// columns and columns with more than maxCategories distinct values are
// skipped with a warning.
func CategoricalCounts(t *table.Table, cols []string, maxCategories int, sink report.Sink) []CategoryCounts {
	if sink == nil {
		sink = report.Discard{}
	}
	if maxCategories <= 0 {
		maxCategories = 20
	}
	var out []CategoryCounts
	for _, name := range cols {
		c, err := t.Column(name)
		if err != nil {
			report.Warnf(sink, "Column '%s' not found in table.", name)
			continue
		}
		if n := c.Distinct(); n > maxCategories {
			report.Warnf(sink, "Skipping '%s': %d unique values (too many).", name, n)
			continue
		}
		cc := CategoryCounts{Column: name, Total: c.Len() - c.Missing(), Counts: c.ValueCounts()}
		sink.Emit(report.Stat{Name: "value_counts", Subject: name, Value: cc})
		out = append(out, cc)
	}
	return out
}

// TopCategories keeps the topN most frequent values of each column and folds
// the rest into an "Other" bucket. Columns with at most minUnique distinct
// values are skipped.
func TopCategories(t *table.Table, cols []string, topN, minUnique int, sink report.Sink) []CategoryCounts {
	if sink == nil {
		sink = report.Discard{}
	}
	if topN <= 0 {
		topN = 10
	}
	var out []CategoryCounts
	for _, name := range cols {
		c, err := t.Column(name)
		if err != nil {
			report.Warnf(sink, "Column '%s' not found in table.", name)
			continue
		}
		if n := c.Distinct(); n <= minUnique {
			report.Infof(sink, "Skipping '%s' (only %d unique values).", name, n)
			continue
		}
		counts := c.ValueCounts()
		cc := CategoryCounts{Column: name, Total: c.Len() - c.Missing()}
		merged := map[string]int{}
		for i, vc := range counts {
			if i < topN {
				merged[vc.Value] += vc.Count
			} else {
				merged[OtherLabel] += vc.Count
			}
		}
		for v, n := range merged {
			cc.Counts = append(cc.Counts, table.ValueCount{Value: v, Count: n})
		}
		sort.Slice(cc.Counts, func(i, j int) bool {
			if cc.Counts[i].Count == cc.Counts[j].Count {
				return cc.Counts[i].Value < cc.Counts[j].Value
			}
			return cc.Counts[i].Count > cc.Counts[j].Count
		})
		sink.Emit(report.Stat{Name: "top_categories", Subject: name, Value: cc})
		out = append(out, cc)
	}
	return out
}

// NumericProfile is the univariate summary of a numeric column.
type NumericProfile struct {
	Column      string            `json:"column" yaml:"column" toml:"column"`
	Description stats.Description `json:"describe" yaml:"describe" toml:"describe"`
	Skewness    float64           `json:"skewness" yaml:"skewness" toml:"skewness"`
	Kurtosis    float64           `json:"kurtosis" yaml:"kurtosis" toml:"kurtosis"`
	Histogram   []stats.Bin       `json:"histogram,omitempty" yaml:"histogram,omitempty" toml:"histogram,omitempty"`
	Box         *stats.Box        `json:"box,omitempty" yaml:"box,omitempty" toml:"box,omitempty"`
}

func (p NumericProfile) MarshalJSON() ([]byte, error) {
	type alias NumericProfile
	return json.Marshal(struct {
		alias
		Skewness stats.NullFloat `json:"skewness"`
		Kurtosis stats.NullFloat `json:"kurtosis"`
	}{alias(p), stats.NullFloat(p.Skewness), stats.NullFloat(p.Kurtosis)})
}

// Markdown renders the describe block, shape moments, box stats and a text histogram.
func (p NumericProfile) Markdown() string {
	var b strings.Builder
	d := p.Description
	b.WriteString(fmt.Sprintf("[NUMERIC SUMMARY] %s\n", safeName(p.Column)))
	b.WriteString(fmt.Sprintf("count %d, mean %s, std %s, min %s, max %s\n", d.Count, num(d.Mean), num(d.Std), num(d.Min), num(d.Max)))
	var pcts []string
	for _, pc := range d.Percentiles {
		pcts = append(pcts, fmt.Sprintf("%g%% %s", pc.P*100, num(pc.Value)))
	}
	if len(pcts) > 0 {
		b.WriteString("percentiles: " + strings.Join(pcts, ", ") + "\n")
	}
	b.WriteString(fmt.Sprintf("skewness %s, kurtosis %s\n", num(p.Skewness), num(p.Kurtosis)))
	if p.Box != nil {
		b.WriteString(fmt.Sprintf("box: Q1 %s, median %s, Q3 %s, whiskers [%s, %s], outliers %d\n",
			num(p.Box.Q1), num(p.Box.Median), num(p.Box.Q3), num(p.Box.LowerWhisker), num(p.Box.UpperWhisker), p.Box.Outliers))
	}
	maxCount := 0
	for _, bin := range p.Histogram {
		if bin.Count > maxCount {
			maxCount = bin.Count
		}
	}
	if maxCount > 0 {
		b.WriteString("histogram:\n")
		for _, bin := range p.Histogram {
			bar := strings.Repeat("#", int(math.Round(float64(bin.Count)*30/float64(maxCount))))
			b.WriteString(fmt.Sprintf("  [%10.4g, %10.4g) %6d %s\n", bin.Lo, bin.Hi, bin.Count, bar))
		}
	}
	return b.String()
}

// NumericSummary profiles numeric columns. A nil cols selects every numeric
// column. Unknown and non-numeric columns are skipped with a warning.
func NumericSummary(t *table.Table, cols []string, bins int, sink report.Sink) []NumericProfile {
	if sink == nil {
		sink = report.Discard{}
	}
	if bins <= 0 {
		bins = 30
	}
	if cols == nil {
		cols = t.ColumnsOfKind(table.KindNumeric)
	}
	var out []NumericProfile
	for _, name := range cols {
		c, err := t.Column(name)
		if err != nil {
			report.Warnf(sink, "Column '%s' not found in table.", name)
			continue
		}
		if c.Kind != table.KindNumeric {
			report.Warnf(sink, "Skipping '%s': %v (%s column).", name, table.ErrTypeMismatch, c.Kind)
			continue
		}
		vals := c.Floats()
		p := NumericProfile{
			Column:      name,
			Description: stats.Describe(vals, stats.DefaultPercentiles...),
			Skewness:    stats.Skewness(vals),
			Kurtosis:    stats.Kurtosis(vals),
			Histogram:   stats.Histogram(vals, bins),
		}
		if box, ok := stats.BoxStats(vals); ok {
			p.Box = &box
		}
		sink.Emit(report.Stat{Name: "numeric_summary", Subject: name, Value: p})
		out = append(out, p)
	}
	return out
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}
