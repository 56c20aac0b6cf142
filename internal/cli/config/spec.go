package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the configuration for brainscan-cli.
type Config struct {
	API     APIConfig     `koanf:"api" yaml:"api"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Storage StorageConfig `koanf:"storage" yaml:"storage"`
	Monitor MonitorConfig `koanf:"monitor" yaml:"monitor"`
	REPL    REPLConfig    `koanf:"repl" yaml:"repl"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	URL           string        `koanf:"url" yaml:"url"`
	Timeout       time.Duration `koanf:"timeout" yaml:"timeout"`
	RateLimit     float64       `koanf:"rate_limit" yaml:"rate_limit"` // requests per second, 0 = unlimited
	CAFile        string        `koanf:"ca_file" yaml:"ca_file,omitempty"`
	RedirectDelay time.Duration `koanf:"redirect_delay" yaml:"redirect_delay"`
}

// OutputConfig sets result rendering.
type OutputConfig struct {
	Format string `koanf:"format" yaml:"format"` // table, json, yaml
	Wide   bool   `koanf:"wide" yaml:"wide"`
}

// LogConfig sets diagnostic logging on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// StorageConfig sets where the credential is kept.
type StorageConfig struct {
	Driver string `koanf:"driver" yaml:"driver"` // badger, sqlite, memory
	Dir    string `koanf:"dir" yaml:"dir"`
	Seal   bool   `koanf:"seal" yaml:"seal"`
}

// MonitorConfig sets the backend reachability probe.
type MonitorConfig struct {
	Interval time.Duration `koanf:"interval" yaml:"interval"`
}

// REPLConfig sets interactive shell behavior.
type REPLConfig struct {
	HistoryFile string `koanf:"history_file" yaml:"history_file"`
	HistorySize int    `koanf:"history_size" yaml:"history_size"`
}

// DefaultDir returns ~/.brainscan.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".brainscan")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "cli.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		API: APIConfig{
			URL:           "http://127.0.0.1:5000",
			Timeout:       30 * time.Second,
			RedirectDelay: time.Second,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Storage: StorageConfig{
			Driver: "badger",
			Dir:    dir,
			Seal:   true,
		},
		Monitor: MonitorConfig{
			Interval: 30 * time.Second,
		},
		REPL: REPLConfig{
			HistoryFile: filepath.Join(dir, "history"),
			HistorySize: 1000,
		},
	}
}

// defaultMap flattens Default into koanf keys.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"api.url":            d.API.URL,
		"api.timeout":        d.API.Timeout.String(),
		"api.rate_limit":     d.API.RateLimit,
		"api.ca_file":        d.API.CAFile,
		"api.redirect_delay": d.API.RedirectDelay.String(),
		"output.format":      d.Output.Format,
		"output.wide":        d.Output.Wide,
		"log.level":          d.Log.Level,
		"log.format":         d.Log.Format,
		"storage.driver":     d.Storage.Driver,
		"storage.dir":        d.Storage.Dir,
		"storage.seal":       d.Storage.Seal,
		"monitor.interval":   d.Monitor.Interval.String(),
		"repl.history_file":  d.REPL.HistoryFile,
		"repl.history_size":  d.REPL.HistorySize,
	}
}

// Keys lists every configuration key.
func Keys() []string {
	m := defaultMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
