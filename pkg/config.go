package room

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSource is read when neither the config nor the command line names a file.
const DefaultSource = "workspace/example.ast"

// DefaultMaxCallDepth stops runaway recursion with ErrRecursionLimit well before
// the Go stack is exhausted.
const DefaultMaxCallDepth = 10000

// Config models the host configuration file.
type Config struct {
	Source                   string `yaml:"source"`
	LogLevel                 string `yaml:"log_level"`
	MaxCallDepth             int    `yaml:"max_call_depth"`
	AllowUnterminatedStrings bool   `yaml:"allow_unterminated_strings"`
	DumpVars                 bool   `yaml:"dump_vars"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:       DefaultSource,
		LogLevel:     "warn",
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig. Unknown keys are rejected
// and an empty file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	return DecodeConfig(f)
}

func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "config: decode")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("config: source must not be empty")
	}

	if c.MaxCallDepth < 0 {
		return errors.Errorf("config: max_call_depth must be >= 0, got %d", c.MaxCallDepth)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel (debug, info, warn or error).
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrapf(err, "config: log_level %q", c.LogLevel)
	}

	return lvl, nil
}

// Options converts the config into interpreter options.
func (c *Config) Options(stdout io.Writer, logger *slog.Logger) *Options {
	return &Options{
		AllowUnterminatedStrings: c.AllowUnterminatedStrings,
		MaxCallDepth:             c.MaxCallDepth,
		Stdout:                   stdout,
		Logger:                   logger,
	}
}
