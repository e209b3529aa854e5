package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/eda-cli/internal/table"
)

var csvRows = [][]string{
	{"A", "0,5", "70", "10,0", "alpha", "first"},
	{"A", "0,6", "71", "11,0", "alpha", "second"},
	{"A", "0,55", "69", "9,5", "beta", "third"},
	{"B", "0,7", "75", "10,5", "alpha", "fourth"},
	{"B", "0,65", "74", "9,8", "beta", "fifth"},
	{"B", "0,68", "73", "10,2", "alpha", "sixth"},
	{"A", "0,52", "68", "8,8", "gamma", "seventh"},
	{"B", "0,75", "76", "9,7", "beta", "eighth"},
	{"A", "3,0", "95", "50,0", "alpha", "ninth"},
	{"B", "0,66", "72", "10,1", "gamma", "tenth"},
}

func fixture() *table.Table {
	header := []string{"Group", "Concentration", "Temp", "Score", "Category", "Note"}
	return table.New("samples.csv", header, csvRows, table.NumberFormat{DecimalSeparator: ','})
}

func TestOverviewSchema(t *testing.T) {
	opt := DefaultOptions()
	opt.Correlations = true
	rep := Overview(fixture(), opt)
	if rep.Rows != 10 || len(rep.Cols) != 6 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", rep.Rows, len(rep.Cols))
	}
	score := rep.Cols[3]
	if score.Kind != "numeric" {
		t.Fatalf("score kind = %s", score.Kind)
	}
	if score.Max != 50 || score.Min != 8.8 {
		t.Fatalf("score bounds = %v..%v", score.Min, score.Max)
	}
	if score.OutliersCount != 1 {
		t.Fatalf("expected 1 outlier in score, got %d", score.OutliersCount)
	}
	cat := rep.Cols[4]
	if len(cat.TopValues) == 0 || cat.TopValues[0].Value != "alpha" || cat.TopValues[0].Count != 5 {
		t.Fatalf("unexpected top values: %+v", cat.TopValues)
	}
	note := rep.Cols[5]
	if len(note.TopValues) != 0 || len(note.ExampleTexts) != 3 {
		t.Fatalf("free-text column should have examples only: %+v", note)
	}
	if rep.Corr == nil || len(rep.Corr.Columns) != 3 {
		t.Fatalf("expected correlation matrix over 3 numeric columns")
	}
	if r := rep.Corr.Values[0][2]; r < 0.9 || math.IsNaN(r) {
		t.Fatalf("concentration ~ score should be strongly correlated, got %v", r)
	}
}

func TestOverviewMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.Correlations = true
	md := Overview(fixture(), opt).Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: samples.csv", "Rows: 10", "[SCHEMA]", "[CORRELATIONS]", "[HEAD AND SAMPLE ROWS]", "| Group | Concentration |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestOverviewNotesEmptyColumn(t *testing.T) {
	tb := table.New("x", []string{"a", "b"}, [][]string{{"1", ""}, {"2", "NA"}}, table.NumberFormat{})
	rep := Overview(tb, DefaultOptions())
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "b has no values") {
		t.Fatalf("unexpected warnings: %v", rep.Warnings)
	}
	if !strings.Contains(rep.Markdown(), "[NOTES]") {
		t.Fatalf("notes section missing")
	}
}

func TestMissingValues(t *testing.T) {
	tb := table.New("x", []string{"a", "b", "c"}, [][]string{{"1", "", "x"}, {"", "", "y"}}, table.NumberFormat{})
	got := MissingValues(tb)
	if len(got) != 2 || got[0].Value != "a" || got[0].Count != 1 || got[1].Value != "b" || got[1].Count != 2 {
		t.Fatalf("unexpected missing counts: %+v", got)
	}
}
