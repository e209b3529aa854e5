package table

import (
	"errors"
	"math"
	"testing"
)

func TestInferKinds(t *testing.T) {
	header := []string{"id", "city", "flag", "when", "rate", "empty"}
	records := [][]string{
		{"1", "Oslo", "true", "2024-01-02", "12,5%", ""},
		{"2", "Bergen", "False", "2024-01-03", "11,0%", "NA"},
		{"3", "", "", "", "", ""},
	}
	tbl := New("demo.csv", header, records, NumberFormat{})
	want := map[string]Kind{
		"id":    KindNumeric,
		"city":  KindText,
		"flag":  KindBool,
		"when":  KindDatetime,
		"rate":  KindNumeric,
		"empty": KindNumeric,
	}
	for name, k := range want {
		c, err := tbl.Column(name)
		if err != nil {
			t.Fatalf("column %s: %v", name, err)
		}
		if c.Kind != k {
			t.Fatalf("%s: kind %s, want %s", name, c.Kind, k)
		}
	}
	rate, _ := tbl.Column("rate")
	if rate.Nums[0] != 12.5 || !math.IsNaN(rate.Nums[2]) {
		t.Fatalf("unexpected rate values: %v", rate.Nums)
	}
	if rate.Missing() != 1 {
		t.Fatalf("rate missing = %d, want 1", rate.Missing())
	}
}

func TestDuplicateAndBlankHeaders(t *testing.T) {
	tbl := New("x", []string{"a", "a", ""}, [][]string{{"1", "2", "3"}}, NumberFormat{})
	got := tbl.Names()
	want := []string{"a", "a.1", "Unnamed: 2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}

func TestDuplicateHeadersSkipTakenSuffix(t *testing.T) {
	cases := []struct {
		header []string
		want   []string
	}{
		{[]string{"x.1", "x", "x"}, []string{"x.1", "x", "x.2"}},
		{[]string{"x", "x", "x.1"}, []string{"x", "x.2", "x.1"}},
		{[]string{"x", "x", "x", "x.2"}, []string{"x", "x.1", "x.3", "x.2"}},
	}
	for _, tc := range cases {
		got := New("x", tc.header, nil, NumberFormat{}).Names()
		seen := map[string]bool{}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("header %v: names = %v, want %v", tc.header, got, tc.want)
			}
			if seen[got[i]] {
				t.Fatalf("header %v: duplicate name %q", tc.header, got[i])
			}
			seen[got[i]] = true
		}
	}
}

func TestRaggedRowsPadded(t *testing.T) {
	tbl := New("x", []string{"a", "b"}, [][]string{{"1"}, {"2", "z"}}, NumberFormat{})
	b, _ := tbl.Column("b")
	if b.Kind != KindText || b.Missing() != 1 {
		t.Fatalf("b kind=%s missing=%d", b.Kind, b.Missing())
	}
}

func TestDistinctNumericComparesValues(t *testing.T) {
	c := Infer("n", []string{"1", "1.0", "2", ""}, NumberFormat{})
	if d := c.Distinct(); d != 2 {
		t.Fatalf("distinct = %d, want 2", d)
	}
}

func TestValueCountsOrdering(t *testing.T) {
	c := Infer("c", []string{"b", "a", "b", "c", "a", "b"}, NumberFormat{})
	vc := c.ValueCounts()
	if vc[0].Value != "b" || vc[0].Count != 3 || vc[1].Value != "a" || vc[2].Value != "c" {
		t.Fatalf("unexpected counts: %+v", vc)
	}
}

func TestUndefinedColumn(t *testing.T) {
	tbl := New("x", []string{"a"}, nil, NumberFormat{})
	if _, err := tbl.Column("zzz"); !errors.Is(err, ErrUndefinedColumn) {
		t.Fatalf("expected ErrUndefinedColumn, got %v", err)
	}
}

func TestParseNumericLocales(t *testing.T) {
	cases := []struct {
		in   string
		nf   NumberFormat
		want float64
	}{
		{"1.000,5", NumberFormat{}, 1000.5},
		{"1,000.5", NumberFormat{}, 1000.5},
		{"0,66", NumberFormat{}, 0.66},
		{"1 234", NumberFormat{}, 1234},
		{"3e2", NumberFormat{}, 300},
		{"1.000,0", NumberFormat{DecimalSeparator: ',', ThousandsSeparator: '.'}, 1000},
	}
	for _, tc := range cases {
		got, ok := ParseNumeric(tc.in, tc.nf)
		if !ok || got != tc.want {
			t.Errorf("ParseNumeric(%q) = %v,%v want %v", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := ParseNumeric("abc", NumberFormat{}); ok {
		t.Errorf("expected abc to fail")
	}
}

func TestCloneAndSet(t *testing.T) {
	tbl := New("x", []string{"a"}, [][]string{{"1"}, {"2"}}, NumberFormat{})
	cp := tbl.Clone()
	if err := cp.Set(NewText("g", []string{"x", "y"})); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(tbl.Columns) != 1 || len(cp.Columns) != 2 {
		t.Fatalf("clone shares columns: %d %d", len(tbl.Columns), len(cp.Columns))
	}
	if err := cp.Set(NewText("bad", []string{"x"})); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	r := cp.Row(1)
	if v, ok := r.Float("a"); !ok || v != 2 {
		t.Fatalf("row float = %v %v", v, ok)
	}
	if r.Get("g") != "y" {
		t.Fatalf("row get = %q", r.Get("g"))
	}
}
