package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "BRAINSCAN_"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	required  bool
	dotenv    []string
	defaults  map[string]any
	loaded    bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path. When required is
// false a missing file is skipped.
func WithConfigFile(path string, required bool) Option {
	return func(l *Loader) {
		l.filePath = path
		l.required = required
	}
}

// WithDotEnv lists .env files read before the environment. Missing files
// are skipped.
func WithDotEnv(paths ...string) Option {
	return func(l *Loader) {
		l.dotenv = paths
	}
}

// WithDefaults sets the lowest-priority values. Its keys are also the
// vocabulary used to map environment variable names.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads defaults, file, .env and environment in that order and
// unmarshals into target. Flags are layered afterwards with LoadMap.
func (l *Loader) Load(target any) error {
	if len(l.defaults) > 0 {
		if err := l.LoadMap(l.defaults); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}

	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			if l.required || !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := LoadDotEnv(l.dotenv...); err != nil {
		return err
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.loaded = true
	return nil
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv sets variables from the given .env files. Variables already
// present in the environment win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadEnv loads variables carrying the prefix. PREFIX_API_REDIRECT_DELAY
// maps to api.redirect_delay when that key is among the defaults;
// otherwise every underscore becomes a dot.
func (l *Loader) LoadEnv() error {
	known := make(map[string]string, len(l.defaults))
	for key := range l.defaults {
		known[envName(key)] = key
	}

	transform := func(s string) string {
		s = strings.TrimPrefix(s, l.envPrefix)
		if key, ok := known[s]; ok {
			return key
		}
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// envName returns the unprefixed environment name for a dotted key.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// LoadMap loads configuration from a map (flags, defaults, tests).
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// Set overrides a single key.
func (l *Loader) Set(key string, value any) error {
	return l.k.Set(key, value)
}

// Exists reports whether key has a value from any source.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetBool returns a bool value from the configuration.
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// IsLoaded returns true if configuration has been loaded.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// All returns all configuration as a flat map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}

// FilePath returns the configured file path.
func (l *Loader) FilePath() string {
	return l.filePath
}
