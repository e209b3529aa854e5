package simulate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/stats"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

const (
	GroupColumn   = "group"
	OutcomeColumn = "outcome"
	Control       = "control"
	Treatment     = "treatment"
)

// ErrInvalidConfig reports an unusable experiment configuration.
var ErrInvalidConfig = errors.New("invalid A/B configuration")

// ABConfig describes a simulated experiment.
type ABConfig struct {
	// TreatmentColumn receives Treatment(group) for every row.
	TreatmentColumn string
	// Treatment maps "control" or "treatment" to the value stored in TreatmentColumn.
	Treatment func(group string) string
	// Outcome decides conversion for a row after group and treatment are assigned.
	Outcome func(r table.Row) bool
	// TestSize is the probability of assignment to the treatment group. Zero means 0.5.
	TestSize float64
	// MaxIter bounds logistic regression iterations. Zero means 1000.
	MaxIter int
}

// GroupRate is the conversion rate of one experiment arm.
type GroupRate struct {
	Group       string  `json:"group" yaml:"group" toml:"group"`
	Size        int     `json:"size" yaml:"size" toml:"size"`
	Conversions int     `json:"conversions" yaml:"conversions" toml:"conversions"`
	Rate        float64 `json:"rate" yaml:"rate" toml:"rate"`
	// Fitted is the mean logistic regression probability over the group's
	// rows; zero when no model was fitted.
	Fitted float64 `json:"fitted_rate,omitempty" yaml:"fitted_rate,omitempty" toml:"fitted_rate,omitempty"`
}

// Coefficient is a fitted logistic regression weight.
type Coefficient struct {
	Feature string  `json:"feature" yaml:"feature" toml:"feature"`
	Weight  float64 `json:"weight" yaml:"weight" toml:"weight"`
}

// ABResult holds the augmented table and the experiment statistics.
type ABResult struct {
	RunID        string        `json:"run_id" yaml:"run_id" toml:"run_id"`
	Table        *table.Table  `json:"-" yaml:"-" toml:"-"`
	Groups       []GroupRate   `json:"groups" yaml:"groups" toml:"groups"`
	Test         stats.ZTest   `json:"z_test" yaml:"z_test" toml:"z_test"`
	Intercept    float64       `json:"intercept" yaml:"intercept" toml:"intercept"`
	Coefficients []Coefficient `json:"coefficients" yaml:"coefficients" toml:"coefficients"`
}

// Rate returns the conversion rate of group, or 0.
func (r *ABResult) Rate(group string) float64 {
	for _, g := range r.Groups {
		if g.Group == group {
			return g.Rate
		}
	}
	return 0
}

// Coefficient returns the weight fitted for feature.
func (r *ABResult) Coefficient(feature string) (float64, bool) {
	for _, c := range r.Coefficients {
		if c.Feature == feature {
			return c.Weight, true
		}
	}
	return 0, false
}

func (r *ABResult) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[A/B TEST] run %s\n", r.RunID))
	b.WriteString("Outcome rate by group:\n")
	for _, g := range r.Groups {
		b.WriteString(fmt.Sprintf("- %s: %.4f (%d/%d)", g.Group, g.Rate, g.Conversions, g.Size))
		if len(r.Coefficients) > 0 {
			b.WriteString(fmt.Sprintf(", fitted %.4f", g.Fitted))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Two-proportion z-test: z=%.4f, p=%.4g", r.Test.Z, r.Test.PValue))
	if r.Test.Degenerate {
		b.WriteString(" (degenerate)")
	}
	b.WriteString("\n")
	if len(r.Coefficients) > 0 {
		b.WriteString("Logistic regression coefficients:\n")
		for _, c := range r.Coefficients {
			b.WriteString(fmt.Sprintf("- %s: %.4f\n", c.Feature, c.Weight))
		}
	}
	return b.String()
}

// ABTest copies t, randomly assigns each row to control or treatment, sets
// the treatment column, computes the binary outcome and then compares the
// groups with a two-proportion z-test and a logistic regression over all
// other columns. The input table is not modified.
func ABTest(t *table.Table, cfg ABConfig, src *gofakeit.Faker, sink report.Sink) (*ABResult, error) {
	if sink == nil {
		sink = report.Discard{}
	}
	if cfg.TreatmentColumn == "" || cfg.Treatment == nil || cfg.Outcome == nil {
		return nil, fmt.Errorf("%w: treatment column, treatment and outcome functions are required", ErrInvalidConfig)
	}
	if cfg.TreatmentColumn == GroupColumn || cfg.TreatmentColumn == OutcomeColumn {
		return nil, fmt.Errorf("%w: treatment column cannot be named '%s'", ErrInvalidConfig, cfg.TreatmentColumn)
	}
	testSize := cfg.TestSize
	if testSize == 0 {
		testSize = 0.5
	}
	if testSize < 0 || testSize > 1 {
		return nil, fmt.Errorf("%w: test size %.2f outside [0, 1]", ErrInvalidConfig, testSize)
	}
	if src == nil {
		src = NewSource(0)
	}

	res := &ABResult{RunID: uuid.NewString(), Table: t.Clone()}
	out := res.Table
	groups := make([]string, out.Rows)
	for i := range groups {
		groups[i] = Control
		if src.Rand.Float64() < testSize {
			groups[i] = Treatment
		}
	}
	if err := out.Set(table.NewText(GroupColumn, groups)); err != nil {
		return nil, err
	}
	treat := make([]string, out.Rows)
	for i, g := range groups {
		treat[i] = cfg.Treatment(g)
	}
	if err := out.Set(table.Infer(cfg.TreatmentColumn, treat, table.NumberFormat{})); err != nil {
		return nil, err
	}
	outcome := make([]float64, out.Rows)
	for i := range outcome {
		if cfg.Outcome(out.Row(i)) {
			outcome[i] = 1
		}
	}
	if err := out.Set(table.NewNumeric(OutcomeColumn, outcome)); err != nil {
		return nil, err
	}

	counts := map[string]*GroupRate{Control: {Group: Control}, Treatment: {Group: Treatment}}
	for i, g := range groups {
		counts[g].Size++
		counts[g].Conversions += int(outcome[i])
	}
	for _, g := range []string{Control, Treatment} {
		gr := counts[g]
		if gr.Size > 0 {
			gr.Rate = float64(gr.Conversions) / float64(gr.Size)
		}
		res.Groups = append(res.Groups, *gr)
	}
	c, tr := counts[Control], counts[Treatment]
	res.Test = stats.TwoProportionZTest(c.Conversions, c.Size, tr.Conversions, tr.Size)
	if res.Test.Degenerate {
		report.Warnf(sink, "z-test is undefined for these groups (control %d/%d, treatment %d/%d).",
			c.Conversions, c.Size, tr.Conversions, tr.Size)
	}

	d := encodeFeatures(out, map[string]bool{GroupColumn: true, OutcomeColumn: true}, sink)
	if len(d.Names) > 0 && out.Rows > 0 {
		m := newLogit(cfg.MaxIter)
		m.Fit(d.X, outcome)
		res.Intercept = m.B
		for j, name := range d.Names {
			res.Coefficients = append(res.Coefficients, Coefficient{Feature: name, Weight: m.W[j]})
		}
		sums := map[string]float64{}
		for i, p := range m.PredictProba(d.X) {
			sums[groups[i]] += p
		}
		for i := range res.Groups {
			if gr := &res.Groups[i]; gr.Size > 0 {
				gr.Fitted = sums[gr.Group] / float64(gr.Size)
			}
		}
	}

	sink.Emit(report.Stat{Name: "ab_test", Subject: res.RunID, Value: res})
	return res, nil
}
