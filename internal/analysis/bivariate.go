package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/stats"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// Crosstab holds row-normalized proportions of two categorical columns.
// Each row of Props sums to 1.
type Crosstab struct {
	Row       string      `json:"row" yaml:"row" toml:"row"`
	Col       string      `json:"col" yaml:"col" toml:"col"`
	RowLabels []string    `json:"row_labels" yaml:"row_labels" toml:"row_labels"`
	ColLabels []string    `json:"col_labels" yaml:"col_labels" toml:"col_labels"`
	Props     [][]float64 `json:"props" yaml:"props" toml:"props"`
}

// At returns the proportion for a row/column label pair.
func (c *Crosstab) At(row, col string) float64 {
	i, j := indexOf(c.RowLabels, row), indexOf(c.ColLabels, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Props[i][j]
}

func (c *Crosstab) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[CROSSTAB] %s x %s (row proportions)\n", safeName(c.Row), safeName(c.Col)))
	headers := append([]string{safeName(c.Row)}, c.ColLabels...)
	rows := make([][]string, len(c.RowLabels))
	for i, label := range c.RowLabels {
		rows[i] = []string{label}
		for _, p := range c.Props[i] {
			rows[i] = append(rows[i], fmt.Sprintf("%.2f", p))
		}
	}
	writeTable(&b, headers, rows)
	return b.String()
}

// CatCat cross-tabulates two text columns. Rows missing either value are ignored.
func CatCat(t *table.Table, a, b string) (*Crosstab, error) {
	ca, err := categoricalColumn(t, a)
	if err != nil {
		return nil, err
	}
	cb, err := categoricalColumn(t, b)
	if err != nil {
		return nil, err
	}
	counts := map[string]map[string]int{}
	colSet := map[string]struct{}{}
	for i := 0; i < t.Rows; i++ {
		if ca.IsMissing(i) || cb.IsMissing(i) {
			continue
		}
		ra, rb := ca.Values[i], cb.Values[i]
		if counts[ra] == nil {
			counts[ra] = map[string]int{}
		}
		counts[ra][rb]++
		colSet[rb] = struct{}{}
	}
	ct := &Crosstab{Row: a, Col: b, RowLabels: sortedKeys(counts), ColLabels: sortedKeys(colSet)}
	for _, r := range ct.RowLabels {
		total := 0
		for _, n := range counts[r] {
			total += n
		}
		row := make([]float64, len(ct.ColLabels))
		for j, col := range ct.ColLabels {
			row[j] = float64(counts[r][col]) / float64(total)
		}
		ct.Props = append(ct.Props, row)
	}
	return ct, nil
}

// GroupStats is the description of a numeric column within one category.
type GroupStats struct {
	Key string            `json:"key" yaml:"key" toml:"key"`
	D   stats.Description `json:"describe" yaml:"describe" toml:"describe"`
}

// GroupSummary describes a numeric column per category of another column.
type GroupSummary struct {
	Cat    string       `json:"categorical" yaml:"categorical" toml:"categorical"`
	Num    string       `json:"numeric" yaml:"numeric" toml:"numeric"`
	Groups []GroupStats `json:"groups" yaml:"groups" toml:"groups"`
}

// Group returns the stats for key.
func (g *GroupSummary) Group(key string) (stats.Description, bool) {
	for _, gs := range g.Groups {
		if gs.Key == key {
			return gs.D, true
		}
	}
	return stats.Description{}, false
}

func (g *GroupSummary) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[GROUP-BY SUMMARY] %s by %s\n", safeName(g.Num), safeName(g.Cat)))
	rows := make([][]string, len(g.Groups))
	for i, gs := range g.Groups {
		d := gs.D
		rows[i] = []string{gs.Key, fmt.Sprintf("%d", d.Count), num(d.Mean), num(d.Std), num(d.Min),
			num(d.At(0.25)), num(d.At(0.5)), num(d.At(0.75)), num(d.Max)}
	}
	writeTable(&b, []string{safeName(g.Cat), "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
	return b.String()
}

// CatNum groups the numeric column num by the text column cat.
func CatNum(t *table.Table, cat, num string) (*GroupSummary, error) {
	cc, err := categoricalColumn(t, cat)
	if err != nil {
		return nil, err
	}
	nc, err := numericColumn(t, num)
	if err != nil {
		return nil, err
	}
	groups := map[string][]float64{}
	for i := 0; i < t.Rows; i++ {
		if cc.IsMissing(i) {
			continue
		}
		k := cc.Values[i]
		if _, ok := groups[k]; !ok {
			groups[k] = nil
		}
		if v := nc.Nums[i]; !math.IsNaN(v) {
			groups[k] = append(groups[k], v)
		}
	}
	gs := &GroupSummary{Cat: cat, Num: num}
	for _, k := range sortedKeys(groups) {
		gs.Groups = append(gs.Groups, GroupStats{Key: k, D: stats.Describe(groups[k])})
	}
	return gs, nil
}

// Correlation is the Pearson coefficient of two numeric columns over rows
// where both are present.
type Correlation struct {
	A string  `json:"a" yaml:"a" toml:"a"`
	B string  `json:"b" yaml:"b" toml:"b"`
	R float64 `json:"r" yaml:"r" toml:"r"`
	N int     `json:"n" yaml:"n" toml:"n"`
}

func (c *Correlation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A string          `json:"a"`
		B string          `json:"b"`
		R stats.NullFloat `json:"r"`
		N int             `json:"n"`
	}{c.A, c.B, stats.NullFloat(c.R), c.N})
}

func (c *Correlation) Markdown() string {
	return fmt.Sprintf("[CORRELATION] %s ~ %s: r=%s (n=%d)\n", safeName(c.A), safeName(c.B), num(c.R), c.N)
}

// NumNum correlates two numeric columns. R is NaN when either column is
// constant over the paired rows.
func NumNum(t *table.Table, a, b string) (*Correlation, error) {
	ca, err := numericColumn(t, a)
	if err != nil {
		return nil, err
	}
	cb, err := numericColumn(t, b)
	if err != nil {
		return nil, err
	}
	n := 0
	for i := 0; i < t.Rows; i++ {
		if !math.IsNaN(ca.Nums[i]) && !math.IsNaN(cb.Nums[i]) {
			n++
		}
	}
	return &Correlation{A: a, B: b, R: stats.Pearson(ca.Nums, cb.Nums), N: n}, nil
}

// Bivariate picks the analysis for a column pair by storage kind: two
// numeric columns are correlated, a numeric and a non-numeric column are
// grouped (in either order), and two non-numeric columns are
// cross-tabulated. Kind mismatches are reported to the sink and skipped;
// unknown columns are returned as errors.
func Bivariate(t *table.Table, a, b string, sink report.Sink) (report.Markdowner, error) {
	if sink == nil {
		sink = report.Discard{}
	}
	ca, err := t.Column(a)
	if err != nil {
		return nil, err
	}
	cb, err := t.Column(b)
	if err != nil {
		return nil, err
	}
	var (
		res  report.Markdowner
		name string
	)
	aNum, bNum := ca.Kind == table.KindNumeric, cb.Kind == table.KindNumeric
	switch {
	case aNum && bNum:
		res, err = NumNum(t, a, b)
		name = "correlation"
	case aNum:
		res, err = CatNum(t, b, a)
		name = "group_summary"
	case bNum:
		res, err = CatNum(t, a, b)
		name = "group_summary"
	default:
		res, err = CatCat(t, a, b)
		name = "crosstab"
	}
	if errors.Is(err, table.ErrTypeMismatch) {
		report.Warnf(sink, "Skipping %s/%s: %v", a, b, err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sink.Emit(report.Stat{Name: name, Subject: a + "/" + b, Value: res})
	return res, nil
}

func categoricalColumn(t *table.Table, name string) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != table.KindText {
		return nil, fmt.Errorf("'%s' is not categorical (%s): %w", name, c.Kind, table.ErrTypeMismatch)
	}
	return c, nil
}

func numericColumn(t *table.Table, name string) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != table.KindNumeric {
		return nil, fmt.Errorf("'%s' is not numeric (%s): %w", name, c.Kind, table.ErrTypeMismatch)
	}
	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
