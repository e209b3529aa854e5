package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/eda-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	// Classification
	MaxUniqueForCategoricals int     `mapstructure:"max_unique_for_categoricals" yaml:"max_unique_for_categoricals" toml:"max_unique_for_categoricals"`
	IDLikeThreshold          float64 `mapstructure:"id_like_threshold" yaml:"id_like_threshold" toml:"id_like_threshold"`

	// Univariate
	MaxCategories int `mapstructure:"max_categories" yaml:"max_categories" toml:"max_categories"`
	TopN          int `mapstructure:"top_n" yaml:"top_n" toml:"top_n"`
	MinUnique     int `mapstructure:"min_unique" yaml:"min_unique" toml:"min_unique"`
	Bins          int `mapstructure:"bins" yaml:"bins" toml:"bins"`

	// Simulation
	SyntheticSamples int     `mapstructure:"synthetic_samples" yaml:"synthetic_samples" toml:"synthetic_samples"`
	Seed             int64   `mapstructure:"seed" yaml:"seed" toml:"seed"`
	TestSize         float64 `mapstructure:"test_size" yaml:"test_size" toml:"test_size"`

	// Ingestion
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows" toml:"max_rows"`
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter" toml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator" toml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator" toml:"thousands_separator"`

	// Output
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format" toml:"log_format"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" toml:"output_format"`
}

// Keys lists settable configuration keys in display order.
var Keys = []string{
	"max_unique_for_categoricals", "id_like_threshold",
	"max_categories", "top_n", "min_unique", "bins",
	"synthetic_samples", "seed", "test_size",
	"max_rows", "delimiter", "decimal_separator", "thousands_separator",
	"log_level", "log_format", "output_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_unique_for_categoricals", 20)
	v.SetDefault("id_like_threshold", 0.9)
	v.SetDefault("max_categories", 20)
	v.SetDefault("top_n", 10)
	v.SetDefault("min_unique", 15)
	v.SetDefault("bins", 30)
	v.SetDefault("synthetic_samples", 1000)
	v.SetDefault("seed", 42)
	v.SetDefault("test_size", 0.5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", "markdown")
}

// DefaultPath returns ~/.eda/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".eda", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. A .toml path is
// written as TOML, anything else as YAML. If cfgFile is empty it writes to
// ~/.eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		b, err = toml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal toml: %w", err)
		}
	} else {
		b, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (EDA_*) > config file > defaults. The config file may be
// YAML or TOML; a missing file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDA")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if _, err := os.Stat(cfgFile); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
			}
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".eda"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ranges of numeric settings.
func (c *Global) Validate() error {
	if c.IDLikeThreshold <= 0 || c.IDLikeThreshold > 1 {
		return fmt.Errorf("id_like_threshold must be in (0, 1], got %v", c.IDLikeThreshold)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("test_size must be in (0, 1), got %v", c.TestSize)
	}
	if c.MaxUniqueForCategoricals < 0 || c.MaxCategories < 0 || c.TopN < 0 || c.MinUnique < 0 || c.Bins < 0 || c.MaxRows < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	switch strings.ToLower(c.OutputFormat) {
	case "", "markdown", "md", "json", "yaml", "toml":
	default:
		return fmt.Errorf("invalid output_format: %s (use markdown, json, yaml or toml)", c.OutputFormat)
	}
	return nil
}

// Set assigns a value by key, parsing numbers as needed.
func (c *Global) Set(key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "max_unique_for_categoricals":
		c.MaxUniqueForCategoricals, err = atoi()
	case "id_like_threshold":
		c.IDLikeThreshold, err = atof()
	case "max_categories":
		c.MaxCategories, err = atoi()
	case "top_n":
		c.TopN, err = atoi()
	case "min_unique":
		c.MinUnique, err = atoi()
	case "bins":
		c.Bins, err = atoi()
	case "synthetic_samples":
		c.SyntheticSamples, err = atoi()
	case "seed":
		c.Seed, err = strconv.ParseInt(val, 10, 64)
		if err != nil {
			err = fmt.Errorf("invalid int for seed: %v", val)
		}
	case "test_size":
		c.TestSize, err = atof()
	case "max_rows":
		c.MaxRows, err = atoi()
	case "delimiter":
		c.Delimiter = val
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	case "log_level":
		c.LogLevel = val
	case "log_format":
		c.LogFormat = val
	case "output_format":
		c.OutputFormat = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}

// Get returns the string form of a key's value.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "max_unique_for_categoricals":
		return strconv.Itoa(c.MaxUniqueForCategoricals), nil
	case "id_like_threshold":
		return strconv.FormatFloat(c.IDLikeThreshold, 'g', -1, 64), nil
	case "max_categories":
		return strconv.Itoa(c.MaxCategories), nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "min_unique":
		return strconv.Itoa(c.MinUnique), nil
	case "bins":
		return strconv.Itoa(c.Bins), nil
	case "synthetic_samples":
		return strconv.Itoa(c.SyntheticSamples), nil
	case "seed":
		return strconv.FormatInt(c.Seed, 10), nil
	case "test_size":
		return strconv.FormatFloat(c.TestSize, 'g', -1, 64), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "thousands_separator":
		return c.ThousandsSeparator, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "output_format":
		return c.OutputFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}
