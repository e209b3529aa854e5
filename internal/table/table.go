package table

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUndefinedColumn is returned when a column name is absent from a table.
	ErrUndefinedColumn = errors.New("undefined column")
	// ErrTypeMismatch is returned when an operation receives a column of the wrong storage kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Kind is the storage type inferred for a column at load time.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindBool
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	case KindDatetime:
		return "datetime"
	default:
		return "text"
	}
}

// Column is a named, positionally aligned sequence of cells.
type Column struct {
	Name string
	Kind Kind
	// Values holds trimmed cell text; "" marks a missing cell.
	Values []string
	// Nums is populated for numeric columns; missing cells are NaN.
	Nums []float64
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric && i < len(c.Nums) {
		return math.IsNaN(c.Nums[i])
	}
	return c.Values[i] == ""
}

// Missing counts missing cells.
func (c *Column) Missing() int {
	n := 0
	for i := range c.Values {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Distinct counts unique non-missing values. Numeric columns compare parsed
// values, so "1" and "1.0" are the same value.
func (c *Column) Distinct() int {
	if c.Kind == KindNumeric {
		seen := make(map[float64]struct{})
		for _, v := range c.Nums {
			if math.IsNaN(v) {
				continue
			}
			seen[v] = struct{}{}
		}
		return len(seen)
	}
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Floats returns the non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Nums))
	for _, v := range c.Nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// ValueCount is a distinct value with its frequency.
type ValueCount struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Count int    `json:"count" yaml:"count" toml:"count"`
}

// ValueCounts returns frequencies of non-missing values ordered by count
// descending, ties broken by value.
func (c *Column) ValueCounts() []ValueCount {
	counts := map[string]int{}
	for i, v := range c.Values {
		if c.IsMissing(i) {
			continue
		}
		if c.Kind == KindNumeric {
			v = FormatFloat(c.Nums[i])
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, ValueCount{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Unique returns distinct non-missing cell texts in order of first appearance.
func (c *Column) Unique() []string {
	seen := map[string]struct{}{}
	var out []string
	for i, v := range c.Values {
		if c.IsMissing(i) {
			continue
		}
		if c.Kind == KindNumeric {
			v = FormatFloat(c.Nums[i])
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind, Values: append([]string(nil), c.Values...)}
	if c.Nums != nil {
		cp.Nums = append([]float64(nil), c.Nums...)
	}
	return cp
}

// NewNumeric builds a numeric column. NaN entries are missing.
func NewNumeric(name string, nums []float64) *Column {
	vals := make([]string, len(nums))
	for i, v := range nums {
		vals[i] = FormatFloat(v)
	}
	return &Column{Name: name, Kind: KindNumeric, Values: vals, Nums: nums}
}

// NewText builds a text column without inference.
func NewText(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindText, Values: values}
}

// FormatFloat renders v in its shortest form; NaN renders as missing.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Table is an ordered collection of named columns with rows aligned by position.
type Table struct {
	Name    string
	Columns []*Column
	Rows    int
}

// New builds a table from a header and string records, inferring each column's kind.
// Short records are padded with missing cells; blank or duplicate header
// names are disambiguated.
func New(name string, header []string, records [][]string, nf NumberFormat) *Table {
	names := uniqueNames(header)
	t := &Table{Name: name, Rows: len(records)}
	for j, n := range names {
		vals := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				vals[i] = rec[j]
			}
		}
		t.Columns = append(t.Columns, Infer(n, vals, nf))
	}
	return t
}

// uniqueNames renames repeated headers to name.1, name.2, ... skipping any
// suffix already taken by another header, so x.1,x,x becomes x.1,x,x.2.
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	taken := map[string]bool{}
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = n
	}
	for _, n := range out {
		taken[n] = true
	}
	used := map[string]bool{}
	next := map[string]int{}
	for i, n := range out {
		if !used[n] {
			used[n] = true
			continue
		}
		k := next[n]
		cand := n
		for {
			k++
			cand = fmt.Sprintf("%s.%d", n, k)
			if !taken[cand] && !used[cand] {
				break
			}
		}
		next[n] = k
		used[cand] = true
		out[i] = cand
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("column '%s' not found in %s: %w", name, t.label(), ErrUndefinedColumn)
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, err := t.Column(name)
	return err == nil
}

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// ColumnsOfKind returns names of columns with the given storage kind.
func (t *Table) ColumnsOfKind(k Kind) []string {
	var out []string
	for _, c := range t.Columns {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Set replaces a same-named column or appends a new one. The column length
// must match the row count.
func (t *Table) Set(c *Column) error {
	if c.Len() != t.Rows {
		return fmt.Errorf("column '%s' has %d values, table has %d rows", c.Name, c.Len(), t.Rows)
	}
	for i, existing := range t.Columns {
		if existing.Name == c.Name {
			t.Columns[i] = c
			return nil
		}
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	cp := &Table{Name: t.Name, Rows: t.Rows, Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		cp.Columns[i] = c.clone()
	}
	return cp
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Record returns row i as cell texts in column order.
func (t *Table) Record(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Values[i]
	}
	return out
}

func (t *Table) label() string {
	if t.Name == "" {
		return "table"
	}
	return t.Name
}

// Row gives access to a single row by column name.
type Row struct {
	t *Table
	i int
}

// Index is the row position.
func (r Row) Index() int { return r.i }

// Get returns the cell text, or "" if the column is missing.
func (r Row) Get(name string) string {
	c, err := r.t.Column(name)
	if err != nil {
		return ""
	}
	return c.Values[r.i]
}

// Float returns the numeric value of a cell; ok is false for missing or non-numeric cells.
func (r Row) Float(name string) (float64, bool) {
	c, err := r.t.Column(name)
	if err != nil || c.Kind != KindNumeric {
		return 0, false
	}
	v := c.Nums[r.i]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
