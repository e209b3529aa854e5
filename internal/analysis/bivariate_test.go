package analysis

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

func pairFixture(t *testing.T) *table.Table {
	return build(t, map[string][]string{
		"plan":   {"free", "free", "pro", "pro", "pro", "free", ""},
		"region": {"eu", "us", "eu", "eu", "us", "eu", "us"},
		"spend":  {"1", "2", "10", "12", "14", "3", "5"},
		"visits": {"2", "4", "20", "24", "28", "6", ""},
		"active": {"true", "false", "true", "true", "false", "true", "true"},
	}, "plan", "region", "spend", "visits", "active")
}

func TestCatCatRowsSumToOne(t *testing.T) {
	ct, err := CatCat(pairFixture(t), "plan", "region")
	if err != nil {
		t.Fatalf("crosstab: %v", err)
	}
	if !slices.Equal(ct.RowLabels, []string{"free", "pro"}) || !slices.Equal(ct.ColLabels, []string{"eu", "us"}) {
		t.Fatalf("labels rows=%v cols=%v", ct.RowLabels, ct.ColLabels)
	}
	if !near(ct.At("free", "eu"), 2.0/3) || !near(ct.At("pro", "us"), 1.0/3) {
		t.Fatalf("unexpected proportions: %v", ct.Props)
	}
	for i, row := range ct.Props {
		sum := 0.0
		for _, p := range row {
			sum += p
		}
		if !near(sum, 1) {
			t.Fatalf("row %d sums to %v", i, sum)
		}
	}
	if md := ct.Markdown(); !strings.Contains(md, "| free | 0.67 | 0.33 |") {
		t.Fatalf("markdown missing free row:\n%s", md)
	}
	if _, err := CatCat(pairFixture(t), "plan", "spend"); !errors.Is(err, table.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCatNum(t *testing.T) {
	gs, err := CatNum(pairFixture(t), "plan", "spend")
	if err != nil {
		t.Fatalf("group summary: %v", err)
	}
	if len(gs.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(gs.Groups))
	}
	free, ok := gs.Group("free")
	if !ok || free.Count != 3 || !near(free.Mean, 2) {
		t.Fatalf("free group: %+v", free)
	}
	pro, _ := gs.Group("pro")
	if !near(pro.At(0.5), 12) {
		t.Fatalf("pro median = %v", pro.At(0.5))
	}
	if !strings.Contains(gs.Markdown(), "[GROUP-BY SUMMARY] spend by plan") {
		t.Fatalf("markdown header missing")
	}
	if _, err := CatNum(pairFixture(t), "spend", "plan"); !errors.Is(err, table.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestNumNumPairwiseComplete(t *testing.T) {
	c, err := NumNum(pairFixture(t), "spend", "visits")
	if err != nil || c.N != 6 || !near(c.R, 1) {
		t.Fatalf("correlation = %+v, err %v", c, err)
	}
	tb := build(t, map[string][]string{"a": {"1", "1", "1"}, "b": {"1", "2", "3"}}, "a", "b")
	c, err = NumNum(tb, "a", "b")
	if err != nil || !math.IsNaN(c.R) {
		t.Fatalf("constant column should give NaN, got %+v, err %v", c, err)
	}
}

func TestBivariateDispatch(t *testing.T) {
	tb := pairFixture(t)
	rec := &report.Recorder{}

	res, err := Bivariate(tb, "spend", "plan", rec)
	gs, ok := res.(*GroupSummary)
	if err != nil || !ok || gs.Cat != "plan" || gs.Num != "spend" {
		t.Fatalf("num/cat dispatch: %#v, err %v", res, err)
	}
	res, err = Bivariate(tb, "plan", "region", rec)
	if _, ok := res.(*Crosstab); err != nil || !ok {
		t.Fatalf("cat/cat dispatch: %#v, err %v", res, err)
	}
	res, err = Bivariate(tb, "spend", "visits", rec)
	if _, ok := res.(*Correlation); err != nil || !ok {
		t.Fatalf("num/num dispatch: %#v, err %v", res, err)
	}

	// bool columns are neither numeric nor categorical here
	res, err = Bivariate(tb, "active", "plan", rec)
	if err != nil || res != nil {
		t.Fatalf("bool pair should be skipped: %#v, err %v", res, err)
	}
	if w := rec.Warnings(); len(w) != 1 || !strings.Contains(w[0], "Skipping active/plan") {
		t.Fatalf("unexpected warnings: %v", w)
	}

	if _, err := Bivariate(tb, "plan", "nope", rec); !errors.Is(err, table.ErrUndefinedColumn) {
		t.Fatalf("expected ErrUndefinedColumn, got %v", err)
	}
	if _, ok := rec.Stat("crosstab", "plan/region"); !ok {
		t.Fatalf("crosstab stat not emitted")
	}
}
