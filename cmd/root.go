package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/eda-cli/internal/config"
	"github.com/KaramelBytes/eda-cli/internal/logging"
	"github.com/KaramelBytes/eda-cli/internal/parser"
	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
	"github.com/KaramelBytes/eda-cli/internal/utils"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	quiet      bool
	logLevel   string
	logFormat  string
	outFormat  string
	outputPath string

	// Ingestion flags (override config if set)
	flagDelimiter  string
	flagDecimal    string
	flagThousands  string
	flagMaxRows    int
	flagSheetName  string
	flagSheetIndex int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eda",
	Short: "eda: exploratory data analysis for CSV and Excel files",
	Long: `eda loads CSV/TSV/XLS/XLSX files (or whole directories of them), classifies
columns into categorical and numerical roles, prints univariate and bivariate
summaries, generates synthetic data and simulates A/B tests.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file, YAML or TOML (default is ~/.eda/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress informational messages and progress bars")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	pf.StringVar(&logFormat, "log-format", "", "diagnostics format: text|json (overrides config)")
	pf.StringVarP(&outFormat, "format", "f", "", "result format: markdown|json|yaml|toml (overrides config)")
	pf.StringVarP(&outputPath, "output", "o", "", "write results to this file instead of stdout")

	pf.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	pf.StringVar(&flagDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	pf.StringVar(&flagThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	pf.IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to read per file (0 = unlimited)")
	pf.StringVar(&flagSheetName, "sheet-name", "", "Excel: sheet name to read")
	pf.IntVar(&flagSheetIndex, "sheet-index", 1, "Excel: 1-based sheet index (used if --sheet-name not provided)")
}

func loadConfig() {
	// .env is optional
	_ = godotenv.Load()

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = defaultConfig()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
	if f.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if f.Changed("format") {
		cfg.OutputFormat = outFormat
	}
	if f.Changed("max-rows") {
		cfg.MaxRows = flagMaxRows
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("decimal") {
		cfg.DecimalSeparator = flagDecimal
	}
	if f.Changed("thousands") {
		cfg.ThousandsSeparator = flagThousands
	}
	logger = logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	logger.Debug("config loaded", "file", cfgFile, "format", cfg.OutputFormat)
}

func defaultConfig() *cfgpkg.Global {
	return &cfgpkg.Global{
		MaxUniqueForCategoricals: 20,
		IDLikeThreshold:          0.9,
		MaxCategories:            20,
		TopN:                     10,
		MinUnique:                15,
		Bins:                     30,
		SyntheticSamples:         1000,
		Seed:                     42,
		TestSize:                 0.5,
		LogLevel:                 "info",
		LogFormat:                "text",
		OutputFormat:             "markdown",
	}
}

// config returns the effective configuration, loading it if a command runs
// outside Execute.
func config() *cfgpkg.Global {
	if cfg == nil {
		loadConfig()
	}
	return cfg
}

// newSink routes diagnostics to stderr: through slog when JSON logging is
// selected, otherwise as console lines.
func newSink(cmd *cobra.Command) report.Sink {
	if strings.EqualFold(config().LogFormat, "json") && logger != nil {
		return &report.Logger{L: logger}
	}
	return &report.Console{W: cmd.ErrOrStderr(), Quiet: quiet, NoStats: true}
}

// parserOptions builds ingestion options from config and flags.
func parserOptions() (parser.Options, error) {
	c := config()
	opt := parser.DefaultOptions()
	opt.MaxRows = c.MaxRows
	opt.SheetName = flagSheetName
	if flagSheetIndex > 0 {
		opt.SheetIndex = flagSheetIndex
	}
	switch c.Delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", c.Delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(c.DecimalSeparator)) {
	case ",", "comma":
		opt.Number.DecimalSeparator = ','
	case ".", "dot":
		opt.Number.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", c.DecimalSeparator)
	}
	switch strings.ToLower(c.ThousandsSeparator) {
	case ",":
		opt.Number.ThousandsSeparator = ','
	case ".":
		opt.Number.ThousandsSeparator = '.'
	case "space", " ":
		opt.Number.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", c.ThousandsSeparator)
	}
	return opt, nil
}

// loadPath loads a file or directory with the configured options.
func loadPath(cmd *cobra.Command, path string) (*parser.Result, error) {
	opt, err := parserOptions()
	if err != nil {
		return nil, err
	}
	return parser.NewLoader(opt, newSink(cmd)).Load(path)
}

// loadTable loads a single file.
func loadTable(cmd *cobra.Command, path string) (*table.Table, error) {
	res, err := loadPath(cmd, path)
	if err != nil {
		return nil, err
	}
	if res.IsDir() {
		return nil, fmt.Errorf("%s is a directory; this command needs a single file", path)
	}
	return res.Table, nil
}

// outputFormat resolves the result format from config and flags.
func outputFormat() (utils.Format, error) {
	return utils.ParseFormat(config().OutputFormat)
}

// writeOutput sends rendered results to --output or stdout.
func writeOutput(cmd *cobra.Command, b []byte) error {
	if outputPath != "" {
		if err := utils.SafeWriteFile(outputPath, b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote results to %s\n", outputPath)
		}
		return nil
	}
	_, err := cmd.OutOrStdout().Write(b)
	return err
}

// render encodes results in the selected format and writes them.
func render[T any](cmd *cobra.Command, items []T) error {
	f, err := outputFormat()
	if err != nil {
		return err
	}
	var b []byte
	if len(items) == 1 {
		b, err = utils.Encode(items[0], f)
	} else {
		b, err = utils.EncodeAll(items, f)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, b)
}

// progress returns a writer for status lines that is silent in quiet mode.
func progress(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}
