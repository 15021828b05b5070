// Package config resolves flashdeck settings from defaults, a JSONC config
// file, FLASHDECK_* environment variables and command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
	"go.uber.org/zap/zapcore"
)

// FileName is the default config file name, looked up in the working directory
const FileName = ".flashdeck.json"

var (
	ErrFileNotFound = errors.New("config file not found")
	ErrInvalid      = errors.New("invalid config")
)

// Config holds all configuration options.
type Config struct {
	Addr         string `json:"addr"`
	DatabasePath string `json:"database_path"`
	LogLevel     string `json:"log_level"`
	LogFormat    string `json:"log_format"`
	Seed         bool   `json:"seed,omitempty"`

	// Source is the config file that was loaded, empty if none
	Source string `json:"-"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Addr:         ":8080",
		DatabasePath: "flashdeck.db",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Flag names read from the FlagSet passed to Load
const (
	FlagConfig    = "config"
	FlagAddr      = "addr"
	FlagDB        = "db"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagSeed      = "seed"
)

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir    string            // if empty, os.Getwd() is used
	ConfigPath string            // --config flag value; must exist when set
	Env        map[string]string // environment variables
	Flags      *pflag.FlagSet    // only flags changed on the command line override
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Config file (explicit --config, else .flashdeck.json if present)
// 3. FLASHDECK_* environment variables
// 4. Flags set on the command line.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	fileCfg, path, err := loadFile(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	cfg = merge(cfg, fileCfg)
	cfg.Source = path

	cfg, err = applyEnv(cfg, input.Env)
	if err != nil {
		return Config{}, err
	}

	if input.Flags != nil {
		cfg, err = applyFlags(cfg, input.Flags)
		if err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalid)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalid)
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(c.LogLevel)))); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q (want console or json)", ErrInvalid, c.LogFormat)
	}
	return nil
}

// Environ returns the process environment as a map
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func loadFile(workDir, configPath string) (Config, string, error) {
	path := configPath
	mustExist := path != ""
	if !mustExist {
		path = FileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, configPath)
			}
			return Config{}, "", nil
		}
		return Config{}, "", fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}
	return cfg, path, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.Addr != "" {
		base.Addr = overlay.Addr
	}
	if overlay.DatabasePath != "" {
		base.DatabasePath = overlay.DatabasePath
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}
	if overlay.Seed {
		base.Seed = true
	}
	return base
}

func applyEnv(cfg Config, env map[string]string) (Config, error) {
	overlay := Config{
		Addr:         env["FLASHDECK_ADDR"],
		DatabasePath: env["FLASHDECK_DB"],
		LogLevel:     env["FLASHDECK_LOG_LEVEL"],
		LogFormat:    env["FLASHDECK_LOG_FORMAT"],
	}
	if v := env["FLASHDECK_SEED"]; v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: FLASHDECK_SEED=%q", ErrInvalid, v)
		}
		cfg.Seed = seed
	}
	return merge(cfg, overlay), nil
}

func applyFlags(cfg Config, fs *pflag.FlagSet) (Config, error) {
	var err error
	str := func(name string, dst *string) {
		if err != nil {
			return
		}
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst, err = fs.GetString(name)
		}
	}

	str(FlagAddr, &cfg.Addr)
	str(FlagDB, &cfg.DatabasePath)
	str(FlagLogLevel, &cfg.LogLevel)
	str(FlagLogFormat, &cfg.LogFormat)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read flags: %w", err)
	}

	if f := fs.Lookup(FlagSeed); f != nil && f.Changed {
		if cfg.Seed, err = fs.GetBool(FlagSeed); err != nil {
			return Config{}, fmt.Errorf("failed to read flags: %w", err)
		}
	}
	return cfg, nil
}
