package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SHEETLENS_MAX_ROWS.
const EnvPrefix = "SHEETLENS"

const dirName = ".sheetlens"

// Global configuration structure.
type Global struct {
	// PresetsFile is the workspace file holding presets and custom charts.
	PresetsFile  string `mapstructure:"presets_file" yaml:"presets_file"`
	MaxRows      int    `mapstructure:"max_rows" yaml:"max_rows"`
	SampleRows   int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet        string `mapstructure:"sheet" yaml:"sheet"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	DefaultLogic string `mapstructure:"default_logic" yaml:"default_logic"`
}

var defaults = map[string]any{
	"max_rows":      100000,
	"sample_rows":   10,
	"delimiter":     "",
	"sheet":         "",
	"output_format": "markdown",
	"default_logic": "and",
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	c := &Global{
		MaxRows:      defaults["max_rows"].(int),
		SampleRows:   defaults["sample_rows"].(int),
		OutputFormat: defaults["output_format"].(string),
		DefaultLogic: defaults["default_logic"].(string),
		PresetsFile:  filepath.Join(dirName, "workspace.json"),
	}
	if dir, err := Dir(); err == nil {
		c.PresetsFile = filepath.Join(dir, "workspace.json")
	}
	return c
}

// Dir returns ~/.sheetlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sheetlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults. A .env file in the
// working directory is read first and never overrides variables already set.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetDefault("presets_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PresetsFile == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.PresetsFile = filepath.Join(dir, "workspace.json")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	switch c.OutputFormat {
	case "markdown", "json":
	default:
		return fmt.Errorf("output_format must be markdown or json, got %q", c.OutputFormat)
	}
	switch strings.ToLower(c.DefaultLogic) {
	case "and", "or":
	default:
		return fmt.Errorf("default_logic must be and or or, got %q", c.DefaultLogic)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must be >= 0, got %d", c.MaxRows)
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("sample_rows must be >= 0, got %d", c.SampleRows)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// Keys lists the settable configuration keys in sorted order.
func Keys() []string {
	keys := []string{"presets_file"}
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one key from its string form and validates the result.
func (c *Global) Set(key, value string) error {
	next := *c
	switch key {
	case "presets_file":
		next.PresetsFile = value
	case "max_rows", "sample_rows":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "max_rows" {
			next.MaxRows = n
		} else {
			next.SampleRows = n
		}
	case "delimiter":
		next.Delimiter = value
	case "sheet":
		next.Sheet = value
	case "output_format":
		next.OutputFormat = strings.ToLower(value)
	case "default_logic":
		next.DefaultLogic = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ParseDelimiter accepts a single character, "tab" or "\t". Empty means auto.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
