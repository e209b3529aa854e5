package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores defaults on every flag so state does not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	reset(c.PersistentFlags())
	reset(c.Flags())
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and return stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	cfg = nil
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, _ := os.Getwd()
	if err := os.Chdir(home); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeCSV(t *testing.T, path string, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,plan,spend,visits\n")
	plans := []string{"free", "pro", "team"}
	for i := 0; i < rows; i++ {
		b.WriteString(strings.Join([]string{
			strconv.Itoa(i),
			plans[i%3],
			strconv.Itoa(10 + (i*7)%45),
			strconv.Itoa(i % 4),
		}, ","))
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCLI_LoadFileAndDirectory(t *testing.T) {
	home := isolate(t)
	data := filepath.Join(home, "data")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}
	writeCSV(t, filepath.Join(data, "a.csv"), 30)
	writeCSV(t, filepath.Join(data, "b.csv"), 12)
	if err := os.WriteFile(filepath.Join(data, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runCmd(t, "load", filepath.Join(data, "a.csv"), "--correlations")
	for _, want := range []string{"[DATASET SUMMARY]", "File: a.csv", "Rows: 30", "[CORRELATIONS]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("load output missing %q:\n%s", want, out)
		}
	}

	out = runCmd(t, "load", data, "-q", "--sample-rows", "0")
	if strings.Count(out, "[DATASET SUMMARY]") != 2 {
		t.Fatalf("expected two reports:\n%s", out)
	}
	if strings.Contains(out, "[HEAD AND SAMPLE ROWS]") {
		t.Fatalf("expected no sample rows")
	}

	if _, err := execCmd("load", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestCLI_ClassifyJSON(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "users.csv")
	writeCSV(t, path, 100)

	out := runCmd(t, "classify", path, "--format", "json")
	var got struct {
		Table       string   `json:"table"`
		Categorical []string `json:"categorical"`
		Numerical   []string `json:"numerical"`
		IDLike      []string `json:"id_like"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if strings.Join(got.Categorical, ",") != "id,plan,visits" {
		t.Fatalf("categorical = %v", got.Categorical)
	}
	if strings.Join(got.Numerical, ",") != "spend" || strings.Join(got.IDLike, ",") != "id" {
		t.Fatalf("numerical = %v, id_like = %v", got.Numerical, got.IDLike)
	}

	if _, err := execCmd("classify", path, "--target", "nope"); err == nil {
		t.Fatalf("expected undefined target error")
	}
}

func TestCLI_UnivariateAndBivariate(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "users.csv")
	writeCSV(t, path, 60)

	out := runCmd(t, "univariate", path, "--bins", "5")
	for _, want := range []string{"[VALUE COUNTS] plan", "[NUMERIC SUMMARY] spend", "histogram:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("univariate output missing %q:\n%s", want, out)
		}
	}
	out = runCmd(t, "univariate", path, "--columns", "plan", "--format", "yaml")
	if !strings.Contains(out, "column: plan") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	out = runCmd(t, "bivariate", path, "spend", "plan")
	if !strings.Contains(out, "[GROUP-BY SUMMARY] spend by plan") {
		t.Fatalf("unexpected bivariate output:\n%s", out)
	}
	out = runCmd(t, "bivariate", path, "spend", "visits", "--format", "toml")
	if !strings.Contains(out, "[result]") {
		t.Fatalf("unexpected toml:\n%s", out)
	}
}

func TestCLI_SynthAndABTest(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "users.csv")
	writeCSV(t, path, 200)

	outFile := filepath.Join(home, "synthetic.csv")
	runCmd(t, "synth", path, "-n", "25", "--seed", "3", "-o", outFile)
	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read synthetic output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 26 || lines[0] != "id,plan,spend,visits" {
		t.Fatalf("unexpected synthetic csv header/rows: %d %q", len(lines), lines[0])
	}

	out := runCmd(t, "abtest", path, "--base-rate", "0.1", "--lift", "0.5", "--format", "json")
	var res struct {
		RunID  string `json:"run_id"`
		Groups []struct {
			Group string  `json:"group"`
			Rate  float64 `json:"rate"`
		} `json:"groups"`
		Test struct {
			PValue float64 `json:"p_value"`
		} `json:"z_test"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.RunID == "" || len(res.Groups) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Test.PValue >= 0.05 {
		t.Fatalf("expected significant difference, p=%v", res.Test.PValue)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)
	runCmd(t, "config", "set", "top_n", "4")
	if _, err := os.Stat(filepath.Join(home, ".eda", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "top_n: 4") {
		t.Fatalf("unexpected config show:\n%s", out)
	}
	if _, err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}

	tomlPath := filepath.Join(home, "eda.toml")
	runCmd(t, "--config", tomlPath, "config", "set", "bins", "9")
	b, err := os.ReadFile(tomlPath)
	if err != nil || !strings.Contains(string(b), "bins = 9") {
		t.Fatalf("toml config not written: %v %s", err, b)
	}
}
