// Package config loads color-mcp settings from defaults, an optional config
// file, COLOR_MCP_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// COLOR_MCP_THRESHOLD.
const EnvPrefix = "COLOR_MCP"

// Keys shared by the config file, environment and flags.
const (
	KeyReference = "reference"
	KeyThreshold = "threshold"
	KeyBinSize   = "bin_size"
	KeyBinMethod = "bin_method"
	KeyWorkers   = "workers"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Config holds every setting the commands consume.
type Config struct {
	// Reference is the color samples are compared against, as "#rrggbb",
	// a packed decimal integer or "r,g,b".
	Reference string  `mapstructure:"reference" toml:"reference"`
	Threshold float64 `mapstructure:"threshold" toml:"threshold"`
	BinSize   float64 `mapstructure:"bin_size" toml:"bin_size"`
	BinMethod string  `mapstructure:"bin_method" toml:"bin_method"`
	Workers   int     `mapstructure:"workers" toml:"workers"`

	LogLevel  string `mapstructure:"log_level" toml:"log_level"`   // debug, info, warn, error
	LogFormat string `mapstructure:"log_format" toml:"log_format"` // text or json
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyReference, classify.DefaultReference.Hex())
	v.SetDefault(KeyThreshold, classify.DefaultThreshold)
	v.SetDefault(KeyBinSize, classify.DefaultBinSize)
	v.SetDefault(KeyBinMethod, colorspace.BinFloor.String())
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// DefaultDir returns the directory searched for config.{toml,yaml,json}
// when no explicit file is given.
func DefaultDir() (string, error) {
	return homedir.Expand(filepath.Join("~", ".config", "color-mcp"))
}

// Load reads the configuration into a Config.
//
// If path is non-empty that file must exist and parse. Otherwise a config
// file in DefaultDir is used when present. Flags should already be bound to
// v with BindPFlag.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", expanded, err)
		}
	} else if dir, err := DefaultDir(); err == nil {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return Decode(v)
}

// Decode builds and validates a Config from the current state of v. It is
// used again after v re-reads a changed config file.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteTOML encodes c in the format Load reads back.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath is the config file created by "config init" when no path is
// given.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if _, err := c.ClassifierOptions(); err != nil {
		return err
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ClassifierOptions converts the config into classifier options.
func (c *Config) ClassifierOptions() (classify.Options, error) {
	ref, err := ParseReference(c.Reference)
	if err != nil {
		return classify.Options{}, err
	}
	method, err := colorspace.ParseBinMethod(c.BinMethod)
	if err != nil {
		return classify.Options{}, err
	}

	opts := classify.Options{
		Reference: ref,
		Threshold: c.Threshold,
		BinSize:   c.BinSize,
		BinMethod: method,
		Workers:   c.Workers,
	}
	if err := opts.Validate(); err != nil {
		return classify.Options{}, err
	}
	return opts, nil
}

// ParseReference parses a color given as "#rrggbb"/"#rgb", a packed decimal
// integer such as "16753920", or an "r,g,b" triple.
func ParseReference(s string) (colorspace.RGB, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return colorspace.RGB{}, errors.New("empty reference color")
	case strings.HasPrefix(s, "#"):
		return colorspace.ParseHex(s)
	case strings.Contains(s, ","):
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return colorspace.RGB{}, fmt.Errorf("reference %q: want r,g,b", s)
		}
		var ch [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return colorspace.RGB{}, fmt.Errorf("reference %q: %w", s, err)
			}
			ch[i] = n
		}
		return colorspace.NewRGB(ch[0], ch[1], ch[2])
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			// bare hex without '#'
			return colorspace.ParseHex(s)
		}
		return colorspace.RGBFromPacked(n)
	}
}

// NewLogger builds the process logger. Output goes to w, which should be
// stderr when stdout carries protocol traffic.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}
