package simulate

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// design is a dense feature matrix with named columns.
type design struct {
	Names []string
	X     [][]float64
}

// encodeFeatures builds a design matrix from every column not in exclude.
// Numeric columns pass through with missing cells imputed by the column
// mean; bool columns become 0/1; text columns are one-hot encoded with the
// first (sorted) level dropped and missing cells encoded as all zeros.
// Datetime columns are skipped.
func encodeFeatures(t *table.Table, exclude map[string]bool, sink report.Sink) design {
	d := design{X: make([][]float64, t.Rows)}
	add := func(name string, col []float64) {
		d.Names = append(d.Names, name)
		for i, v := range col {
			d.X[i] = append(d.X[i], v)
		}
	}
	for _, c := range t.Columns {
		if exclude[c.Name] {
			continue
		}
		switch c.Kind {
		case table.KindNumeric:
			vals := c.Floats()
			if len(vals) == 0 {
				report.Warnf(sink, "Dropping feature '%s': no values.", c.Name)
				continue
			}
			mean := 0.0
			for _, v := range vals {
				mean += v
			}
			mean /= float64(len(vals))
			col := make([]float64, t.Rows)
			for i, v := range c.Nums {
				if math.IsNaN(v) {
					v = mean
				}
				col[i] = v
			}
			add(c.Name, col)
		case table.KindBool:
			col := make([]float64, t.Rows)
			for i, v := range c.Values {
				if strings.EqualFold(v, "true") {
					col[i] = 1
				}
			}
			add(c.Name, col)
		case table.KindText:
			levels := c.Unique()
			sort.Strings(levels)
			for _, lvl := range levels[min(1, len(levels)):] {
				col := make([]float64, t.Rows)
				for i, v := range c.Values {
					if v == lvl {
						col[i] = 1
					}
				}
				add(c.Name+"_"+lvl, col)
			}
		default:
			report.Warnf(sink, "Dropping feature '%s': %s columns are not encoded.", c.Name, c.Kind)
		}
	}
	return d
}
