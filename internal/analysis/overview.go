package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/stats"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// Options controls the dataset overview.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the frequent values listed per text column.
	TopValues int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset overviews.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopValues:        8,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly overview of a table: the schema with
// per-column statistics, missing values and a few sample rows.
type Report struct {
	Name     string          `json:"name" yaml:"name" toml:"name"`
	Rows     int             `json:"rows" yaml:"rows" toml:"rows"`
	Cols     []ColumnSummary `json:"columns" yaml:"columns" toml:"columns"`
	Samples  [][]string      `json:"samples,omitempty" yaml:"samples,omitempty" toml:"samples,omitempty"`
	Warnings []string        `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`
	Corr     *CorrMatrix     `json:"correlations,omitempty" yaml:"correlations,omitempty" toml:"correlations,omitempty"`
}

// ColumnSummary captures storage kind and statistics per column.
type ColumnSummary struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	NonNull int    `json:"non_null" yaml:"non_null" toml:"non_null"`
	Missing int    `json:"missing" yaml:"missing" toml:"missing"`
	Unique  int    `json:"unique" yaml:"unique" toml:"unique"`
	// Numeric stats
	Min  float64 `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max  float64 `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	Mean float64 `json:"mean,omitempty" yaml:"mean,omitempty" toml:"mean,omitempty"`
	Std  float64 `json:"std,omitempty" yaml:"std,omitempty" toml:"std,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty" yaml:"outliers,omitempty" toml:"outliers,omitempty"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty" yaml:"outliers_max_abs_z,omitempty" toml:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty" yaml:"outlier_threshold,omitempty" toml:"outlier_threshold,omitempty"`
	// Text top values
	TopValues    []table.ValueCount `json:"top_values,omitempty" yaml:"top_values,omitempty" toml:"top_values,omitempty"`
	ExampleTexts []string           `json:"examples,omitempty" yaml:"examples,omitempty" toml:"examples,omitempty"`
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns" yaml:"columns" toml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values" toml:"values"` // row-major, Values[i][j]
}

// Overview summarizes every column of t. The table is not modified.
func Overview(t *table.Table, opt Options) *Report {
	rep := &Report{Name: t.Name, Rows: t.Rows}
	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i := 0; i < t.Rows && i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Record(i))
	}
	topN := opt.TopValues
	if topN <= 0 {
		topN = 8
	}
	var numCols []*table.Column
	for _, c := range t.Columns {
		s := ColumnSummary{Name: c.Name, Kind: c.Kind.String(), Missing: c.Missing(), Unique: c.Distinct()}
		s.NonNull = c.Len() - s.Missing
		switch c.Kind {
		case table.KindNumeric:
			vals := c.Floats()
			if len(vals) > 0 {
				d := stats.Describe(vals)
				s.Min, s.Max, s.Mean = d.Min, d.Max, d.Mean
				if !math.IsNaN(d.Std) {
					s.Std = d.Std
				}
			}
			if opt.Outliers && len(vals) >= 8 {
				thr := opt.OutlierThreshold
				if thr <= 0 {
					thr = 3.5
				}
				s.OutliersCount, s.OutliersMaxAbsZ = stats.RobustOutliers(vals, thr)
				s.OutlierThreshold = thr
			}
			numCols = append(numCols, c)
		case table.KindText:
			tops := c.ValueCounts()
			if s.Unique < c.Len()/2 || s.Unique <= topN {
				if len(tops) > topN {
					tops = tops[:topN]
				}
				s.TopValues = tops
			} else {
				// mostly unique values: free text rather than labels
				for _, v := range c.Unique() {
					if len(s.ExampleTexts) == 3 {
						break
					}
					s.ExampleTexts = append(s.ExampleTexts, v)
				}
			}
		}
		if s.Missing == c.Len() && c.Len() > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has no values", safeName(c.Name)))
		}
		rep.Cols = append(rep.Cols, s)
	}
	if opt.Correlations && len(numCols) >= 2 {
		rep.Corr = correlationMatrix(numCols)
	}
	return rep
}

func correlationMatrix(cols []*table.Column) *CorrMatrix {
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		m.Values[a][a] = 1
		for b := a + 1; b < n; b++ {
			r := stats.Pearson(cols[a].Nums, cols[b].Nums)
			if math.IsNaN(r) {
				r = 0
			}
			m.Values[a][b], m.Values[b][a] = r, r
		}
	}
	return m
}

// MissingValues returns missing counts for columns that have any, in table order.
func MissingValues(t *table.Table) []table.ValueCount {
	var out []table.ValueCount
	for _, c := range t.Columns {
		if n := c.Missing(); n > 0 {
			out = append(out, table.ValueCount{Value: c.Name, Count: n})
		}
	}
	return out
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%, unique %d)", safeName(c.Name), c.Kind, c.NonNull, missPct, c.Unique))
		switch c.Kind {
		case "numeric":
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "text":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			} else if len(c.ExampleTexts) > 0 {
				b.WriteString(" — e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		// list top pairs by |r|
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		headers := make([]string, len(r.Cols))
		for i, c := range r.Cols {
			headers[i] = safeName(c.Name)
		}
		writeTable(&b, headers, r.Samples)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// writeTable renders a pipe table, truncating long cells.
func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString(" |\n| ")
	for i := range headers {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range headers {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
