package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/brainscan-go/internal/core/domain"
	"github.com/yndnr/brainscan-go/internal/infra/confloader"
	"github.com/yndnr/brainscan-go/internal/telemetry/logger"
)

// FallbackURLEnv is read when no source sets api.url.
const FallbackURLEnv = "VITE_API_URL"

// DotEnvFile is read from the working directory.
const DotEnvFile = ".env"

// Options controls Load.
type Options struct {
	// Path of the YAML file; empty means DefaultConfigPath.
	Path string
	// Explicit makes a missing file an error.
	Explicit bool
	// Overrides are flag values keyed like the file (api.url, output.format).
	Overrides map[string]any
}

// Load builds the configuration from every source.
func Load(opts Options) (*Config, error) {
	path := opts.Path
	if path == "" {
		path = DefaultConfigPath()
	}

	loader := confloader.NewLoader(
		confloader.WithDefaults(defaultMap()),
		confloader.WithConfigFile(path, opts.Explicit),
		confloader.WithDotEnv(DotEnvFile),
	)

	cfg := &Config{}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.API.URL == Default().API.URL {
		if fallback := strings.TrimSpace(os.Getenv(FallbackURLEnv)); fallback != "" {
			if err := loader.Set("api.url", fallback); err != nil {
				return nil, err
			}
		}
	}

	if len(opts.Overrides) > 0 {
		if err := loader.LoadMap(opts.Overrides); err != nil {
			return nil, err
		}
	}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.REPL.HistoryFile = expandHome(cfg.REPL.HistoryFile)
	cfg.API.CAFile = expandHome(cfg.API.CAFile)
	return cfg, nil
}

// Validate checks the configuration for values the CLI cannot use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.ErrValidation.WithDetails(fmt.Sprintf("api.url %q must be an http(s) URL", c.API.URL))
	}
	if c.API.Timeout <= 0 {
		return domain.ErrValidation.WithDetails("api.timeout must be positive")
	}
	if c.API.RateLimit < 0 {
		return domain.ErrValidation.WithDetails("api.rate_limit must not be negative")
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return domain.ErrValidation.WithDetails(fmt.Sprintf("output.format %q must be table, json or yaml", c.Output.Format))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return domain.ErrValidation.WithDetails(fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return domain.ErrValidation.WithDetails(fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	switch c.Storage.Driver {
	case "badger", "sqlite", "memory":
	default:
		return domain.ErrValidation.WithDetails(fmt.Sprintf("storage.driver %q must be badger, sqlite or memory", c.Storage.Driver))
	}
	if c.Storage.Driver != "memory" && c.Storage.Dir == "" {
		return domain.ErrValidation.WithDetails("storage.dir is required")
	}
	if c.Monitor.Interval <= 0 {
		return domain.ErrValidation.WithDetails("monitor.interval must be positive")
	}
	return nil
}

// Flatten returns the configuration as sorted key/value pairs.
func (c *Config) Flatten() [][2]string {
	data, _ := yaml.Marshal(c)
	var tree map[string]any
	_ = yaml.Unmarshal(data, &tree)

	var out [][2]string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(key, sub)
				continue
			}
			out = append(out, [2]string{key, fmt.Sprint(v)})
		}
	}
	walk("", tree)
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// Save writes the configuration as YAML, readable only by the owner.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
